package services

import (
	"context"
	"fmt"
	"time"

	"amora_server/apperrors"
	"amora_server/models"
	"amora_server/utils"
)

// DefaultProfileAge is assigned when a profile is materialized lazily by a
// swipe before the account ever set one.
const DefaultProfileAge = 18

// MatchService is the swipe/match engine: it records likes and passes,
// detects mutual likes, and maintains the canonical match records and each
// profile's exclusion sets. It only mutates durable state; real-time
// fan-out is the caller's job.
type MatchService struct {
	Accounts AccountStore
	Profiles ProfileStore
	Matches  MatchStore
	Messages MessageStore
}

func NewMatchService(accounts AccountStore, profiles ProfileStore, matches MatchStore, messages MessageStore) *MatchService {
	return &MatchService{Accounts: accounts, Profiles: profiles, Matches: matches, Messages: messages}
}

func validatePair(actorID, targetID string) error {
	if actorID == "" || targetID == "" {
		return apperrors.Validation("MISSING_FIELDS", "profile id is required")
	}
	if actorID == targetID {
		return apperrors.Validation("SELF_ACTION", "cannot swipe on your own profile")
	}
	return nil
}

// EnsureProfile lazily materializes the actor's profile. Every engine entry
// point goes through it, so a missing profile can never fail a swipe.
func (s *MatchService) EnsureProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, apperrors.Validation("MISSING_FIELDS", "user id is required")
	}
	profile, err := s.Profiles.Ensure(ctx, userID, DefaultProfileAge)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile for %s: %w", userID, err)
	}
	return profile, nil
}

// RecordLike adds targetID to the actor's liked set and, when the like is
// mutual, establishes the canonical match. The result's IsMatch tells the
// caller whether a match formed; no notification is emitted here.
func (s *MatchService) RecordLike(ctx context.Context, actorID, targetID string) (*models.MatchResult, error) {
	if err := validatePair(actorID, targetID); err != nil {
		return nil, err
	}

	if _, err := s.EnsureProfile(ctx, actorID); err != nil {
		return nil, err
	}
	if err := s.Profiles.AddToSet(ctx, actorID, models.ProfileFieldLiked, targetID); err != nil {
		return nil, err
	}

	// An unknown target cannot have liked back; the like still counts.
	targetProfile, err := s.Profiles.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if targetProfile == nil || !models.Has(targetProfile.LikedProfiles, actorID) {
		return &models.MatchResult{IsMatch: false}, nil
	}

	// Mutual like: record membership on both sides, then establish the
	// canonical match record exactly once.
	if err := s.Profiles.AddToSet(ctx, actorID, models.ProfileFieldMatches, targetID); err != nil {
		return nil, err
	}
	if err := s.Profiles.AddToSet(ctx, targetID, models.ProfileFieldMatches, actorID); err != nil {
		return nil, err
	}

	user1, user2 := utils.CanonicalPair(actorID, targetID)
	match := models.Match{
		PairKey:   utils.PairKey(actorID, targetID),
		User1:     user1,
		User2:     user2,
		Active:    true,
		MatchedAt: utils.Timestamp(time.Now()),
	}

	created, err := s.Matches.CreateIfAbsent(ctx, match)
	if err != nil {
		return nil, err
	}
	if !created {
		existing, err := s.Matches.Get(ctx, match.PairKey)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.Active {
			// Lost a concurrent create or the pair was already matched;
			// keep the original timestamp.
			match = *existing
		} else if err := s.Matches.Reactivate(ctx, match.PairKey, match.MatchedAt); err != nil {
			// A stale inactive record from an earlier unmatch: a fresh
			// mutual like brings the same canonical record back to life.
			return nil, err
		}
	}

	result := &models.MatchResult{
		IsMatch:       true,
		MatchedUserID: targetID,
		MatchedAt:     match.MatchedAt,
	}
	if account, err := s.Accounts.Get(ctx, targetID); err == nil && account != nil {
		result.MatchedUserName = account.Name
		result.MatchedUserPhoto = account.PhotoURL
	}
	return result, nil
}

// RecordPass adds targetID to the actor's passed set.
func (s *MatchService) RecordPass(ctx context.Context, actorID, targetID string) error {
	if err := validatePair(actorID, targetID); err != nil {
		return err
	}
	if _, err := s.EnsureProfile(ctx, actorID); err != nil {
		return err
	}
	return s.Profiles.AddToSet(ctx, actorID, models.ProfileFieldPassed, targetID)
}

// ListCandidates returns up to limit browsable profiles, excluding the
// actor and everyone already liked, passed, or matched.
func (s *MatchService) ListCandidates(ctx context.Context, actorID string, limit int) ([]models.CandidateProfile, error) {
	profile, err := s.EnsureProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}

	exclude := map[string]struct{}{actorID: {}}
	for _, set := range [][]string{profile.LikedProfiles, profile.PassedProfiles, profile.Matches} {
		for _, id := range set {
			exclude[id] = struct{}{}
		}
	}

	profiles, err := s.Profiles.ListExcluding(ctx, exclude, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.CandidateProfile, 0, len(profiles))
	for _, p := range profiles {
		candidate := models.CandidateProfile{
			UserID:    p.UserID,
			Age:       p.Age,
			Location:  p.Location,
			Interests: p.Interests,
		}
		if account, err := s.Accounts.Get(ctx, p.UserID); err == nil && account != nil {
			candidate.Name = account.Name
			candidate.Email = account.Email
			candidate.Bio = account.Bio
			candidate.PhotoURL = account.PhotoURL
			candidate.Gender = account.Gender
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// ListMatches returns the public fields of every account the actor is
// actively matched with.
func (s *MatchService) ListMatches(ctx context.Context, actorID string) ([]models.PublicAccount, error) {
	profile, err := s.Profiles.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return []models.PublicAccount{}, nil
	}

	matches := make([]models.PublicAccount, 0, len(profile.Matches))
	for _, counterpartID := range profile.Matches {
		account, err := s.Accounts.Get(ctx, counterpartID)
		if err != nil || account == nil {
			continue
		}
		matches = append(matches, account.Public())
	}
	return matches, nil
}

// Unmatch removes the pair from both profiles' matches sets, deactivates
// the canonical match record, and deletes the conversation's messages. The
// profile and match mutations commit atomically; the message cascade is
// idempotent, so retrying a failed unmatch repairs it.
func (s *MatchService) Unmatch(ctx context.Context, actorID, counterpartID string) error {
	if err := validatePair(actorID, counterpartID); err != nil {
		return err
	}

	pairKey := utils.PairKey(actorID, counterpartID)
	match, err := s.Matches.Get(ctx, pairKey)
	if err != nil {
		return err
	}
	if match == nil {
		return apperrors.NotFound("MATCH_NOT_FOUND", "no match with this user")
	}

	if err := s.Matches.DeactivateAndUnlink(ctx, actorID, counterpartID); err != nil {
		return err
	}
	return s.Messages.DeleteConversation(ctx, utils.ConversationID(actorID, counterpartID))
}
