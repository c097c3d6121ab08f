package profile

import (
	"context"
	"fmt"

	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/kvstore"
	"github.com/yeti47/vidfolio/server/core/videos"
)

type Slot string

const (
	SlotHero  Slot = "hero"
	SlotAbout Slot = "about"
)

// Slots lists the profile image slots in display order
var Slots = []Slot{SlotHero, SlotAbout}

func (s Slot) IsValid() bool {
	return s == SlotHero || s == SlotAbout
}

// Key returns the key-value store key of the slot
func (s Slot) Key() string {
	return "profile_" + string(s) + "_image"
}

// Label is the capitalized slot name used in messages
func (s Slot) Label() string {
	switch s {
	case SlotHero:
		return "Hero"
	case SlotAbout:
		return "About"
	}
	return string(s)
}

// SuccessMessage and FailureMessage are the banners shown after an upload
func (s Slot) SuccessMessage() string {
	return s.Label() + " image updated successfully!"
}

func (s Slot) FailureMessage() string {
	return "Failed to upload " + string(s) + " image."
}

type InvalidSlotError struct {
	Slot string
}

func (e *InvalidSlotError) Error() string {
	return "Invalid profile image slot: " + e.Slot
}

func IsInvalidSlotError(err error) bool {
	_, ok := err.(*InvalidSlotError)
	return ok
}

// ImageStore keeps the hero and about images as data URIs
type ImageStore interface {
	// Get returns the stored data URI, empty when nothing was uploaded
	Get(ctx context.Context, slot Slot) (string, error)
	// Set encodes the source and stores it in the slot
	Set(ctx context.Context, slot Slot, source videos.MediaSource) (string, error)
	Clear(ctx context.Context, slot Slot) error
}

type imageStore struct {
	logger  logging.Logger
	store   kvstore.Store
	encoder videos.MediaEncoder
}

func NewImageStore(logger logging.Logger, store kvstore.Store, encoder videos.MediaEncoder) ImageStore {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &imageStore{
		logger:  logger,
		store:   store,
		encoder: encoder,
	}
}

func (s *imageStore) Get(ctx context.Context, slot Slot) (string, error) {
	if !slot.IsValid() {
		return "", &InvalidSlotError{Slot: string(slot)}
	}

	value, _, err := s.store.Get(ctx, slot.Key())
	if err != nil {
		return "", fmt.Errorf("failed to read %s image: %w", slot, err)
	}
	return value, nil
}

func (s *imageStore) Set(ctx context.Context, slot Slot, source videos.MediaSource) (string, error) {
	if !slot.IsValid() {
		return "", &InvalidSlotError{Slot: string(slot)}
	}

	// profile images are always embedded, like thumbnails
	encoded, err := s.encoder.Encode(ctx, videos.RoleThumbnail, source)
	if err != nil {
		s.logger.Error("Failed to encode profile image", "slot", slot, "error", err)
		return "", err
	}

	if err := s.store.Set(ctx, slot.Key(), encoded.DataURI); err != nil {
		s.logger.Error("Failed to store profile image", "slot", slot, "error", err)
		return "", fmt.Errorf("failed to store %s image: %w", slot, err)
	}

	s.logger.Info("Profile image updated", "slot", slot, "size", encoded.Size)
	return encoded.DataURI, nil
}

func (s *imageStore) Clear(ctx context.Context, slot Slot) error {
	if !slot.IsValid() {
		return &InvalidSlotError{Slot: string(slot)}
	}

	if err := s.store.Delete(ctx, slot.Key()); err != nil {
		return fmt.Errorf("failed to clear %s image: %w", slot, err)
	}
	s.logger.Info("Profile image cleared", "slot", slot)
	return nil
}
