package videos

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
)

type Flow string

const (
	FlowCreate Flow = "create"
	FlowEdit   Flow = "edit"
	FlowDelete Flow = "delete"
)

type FlowState string

const (
	StateIdle       FlowState = "idle"
	StateSubmitting FlowState = "submitting"
	StateSuccess    FlowState = "success"
	StateError      FlowState = "error"
)

type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerError   BannerKind = "error"
)

// Banner is the status message shown after a flow ends
type Banner struct {
	Kind BannerKind
	Text string
}

const (
	MsgCreated = "Video uploaded successfully! It will now appear in your portfolio."
	MsgUpdated = "Video updated successfully!"
	MsgDeleted = "Video deleted successfully!"

	msgCreateFailed = "Failed to upload video. Please try again."
	msgUpdateFailed = "Failed to update video. Please try again."
	msgDeleteFailed = "Failed to delete video. Please try again."
	msgBusy         = "Please wait for the current submission to finish."
)

const maxIDAttempts = 5

// ProgressFunc receives the completion percentage of a running flow
type ProgressFunc func(percent int)

// CreateForm holds the values of the upload form
type CreateForm struct {
	Title         string
	Description   string
	Duration      string
	Resolution    string
	Category      Category
	YoutubeID     string
	VideoFile     MediaSource
	ThumbnailFile MediaSource
}

type AdminController interface {
	// Submit validates and stores a new video
	Submit(ctx context.Context, form CreateForm, progress ProgressFunc) (*Video, Banner, error)

	// BeginEdit opens an edit session seeded from the stored video
	BeginEdit(ctx context.Context, id string) (*EditSession, error)
	// SaveEdit stores the session's working copy, re-encoding only newly picked files
	SaveEdit(ctx context.Context, session *EditSession, progress ProgressFunc) (*Video, Banner, error)

	// SelectForDelete picks a video for deletion without removing it
	SelectForDelete(ctx context.Context, id string) (*DeleteSelection, error)
	// ConfirmDelete removes the selected video
	ConfirmDelete(ctx context.Context, selection *DeleteSelection) (Banner, error)

	State(flow Flow) FlowState
}

type adminController struct {
	logger  logging.Logger
	catalog Catalog
	encoder MediaEncoder
	now     func() time.Time
	newID   func() string

	mu     sync.Mutex
	states map[Flow]FlowState
}

func NewAdminController(logger logging.Logger, catalog Catalog, encoder MediaEncoder) AdminController {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &adminController{
		logger:  logger,
		catalog: catalog,
		encoder: encoder,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
		states: map[Flow]FlowState{
			FlowCreate: StateIdle,
			FlowEdit:   StateIdle,
			FlowDelete: StateIdle,
		},
	}
}

func (c *adminController) State(flow Flow) FlowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[flow]
}

func (c *adminController) begin(flow Flow) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states[flow] == StateSubmitting {
		return false
	}
	c.states[flow] = StateSubmitting
	return true
}

func (c *adminController) finish(flow Flow, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.states[flow] = StateError
	} else {
		c.states[flow] = StateSuccess
	}
}

func (c *adminController) Submit(ctx context.Context, form CreateForm, progress ProgressFunc) (video *Video, banner Banner, err error) {
	if !c.begin(FlowCreate) {
		return nil, Banner{Kind: BannerError, Text: msgBusy}, ErrFlowBusy
	}
	defer func() { c.finish(FlowCreate, err) }()
	report := reporter(progress)

	if err := ValidateCreateForm(form); err != nil {
		return nil, errorBanner(err, msgCreateFailed), err
	}
	report(10)

	thumbnail, err := c.encoder.Encode(ctx, RoleThumbnail, form.ThumbnailFile)
	if err != nil {
		c.logger.Error("Failed to encode thumbnail", "error", err)
		return nil, errorBanner(err, msgCreateFailed), err
	}
	report(40)

	var videoURL string
	if form.Category.RequiresVideoFile() && form.VideoFile != nil {
		encoded, err := c.encoder.Encode(ctx, RoleVideo, form.VideoFile)
		if err != nil {
			c.logger.Error("Failed to encode video", "error", err)
			return nil, errorBanner(err, msgCreateFailed), err
		}
		videoURL = encoded.DataURI
	}
	report(80)

	newVideo := Video{
		Title:       form.Title,
		Description: form.Description,
		Duration:    form.Duration,
		Resolution:  form.Resolution,
		Thumbnail:   thumbnail.DataURI,
		VideoURL:    videoURL,
		Category:    form.Category,
		DateAdded:   c.now(),
	}
	if form.Category == CategoryYouTube {
		newVideo.YoutubeID = form.YoutubeID
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		newVideo.ID = c.newID()
		err = c.catalog.Append(ctx, newVideo)
		if !IsVideoAlreadyExistsError(err) {
			break
		}
		c.logger.Warn("Generated video id already in use, regenerating", "video_id", newVideo.ID)
	}
	if err != nil {
		return nil, errorBanner(err, msgCreateFailed), err
	}
	report(100)

	c.logger.Info("Video uploaded", "video_id", newVideo.ID, "category", newVideo.Category, "embedded_video", newVideo.HasVideo())
	return &newVideo, Banner{Kind: BannerSuccess, Text: MsgCreated}, nil
}

func (c *adminController) BeginEdit(ctx context.Context, id string) (*EditSession, error) {
	stored, err := c.catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EditSession{Video: *stored}, nil
}

func (c *adminController) SaveEdit(ctx context.Context, session *EditSession, progress ProgressFunc) (video *Video, banner Banner, err error) {
	if session == nil {
		return nil, Banner{Kind: BannerError, Text: msgUpdateFailed}, errors.New("no edit session")
	}
	if !c.begin(FlowEdit) {
		return nil, Banner{Kind: BannerError, Text: msgBusy}, ErrFlowBusy
	}
	defer func() { c.finish(FlowEdit, err) }()
	report := reporter(progress)

	working := session.Video
	if err := ValidateFields(working.Title, working.Description, working.Duration, working.Resolution, working.Category, working.YoutubeID); err != nil {
		return nil, errorBanner(err, msgUpdateFailed), err
	}

	if session.NewThumbnail != nil {
		encoded, err := c.encoder.Encode(ctx, RoleThumbnail, session.NewThumbnail)
		if err != nil {
			c.logger.Error("Failed to encode thumbnail", "error", err, "video_id", working.ID)
			return nil, errorBanner(err, msgUpdateFailed), err
		}
		working.Thumbnail = encoded.DataURI
	}
	report(30)

	if session.NewVideo != nil {
		encoded, err := c.encoder.Encode(ctx, RoleVideo, session.NewVideo)
		if err != nil {
			c.logger.Error("Failed to encode video", "error", err, "video_id", working.ID)
			return nil, errorBanner(err, msgUpdateFailed), err
		}
		working.VideoURL = encoded.DataURI
	}
	report(60)

	if working.Category != CategoryYouTube {
		working.YoutubeID = ""
	}
	report(90)

	saved, err := c.catalog.Update(ctx, working.ID, func(stored *Video) error {
		*stored = working
		return nil
	})
	if err != nil {
		return nil, errorBanner(err, msgUpdateFailed), err
	}
	report(100)

	c.logger.Info("Video updated", "video_id", saved.ID)
	return saved, Banner{Kind: BannerSuccess, Text: MsgUpdated}, nil
}

func (c *adminController) SelectForDelete(ctx context.Context, id string) (*DeleteSelection, error) {
	stored, err := c.catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteSelection{ID: stored.ID, Title: stored.Title}, nil
}

func (c *adminController) ConfirmDelete(ctx context.Context, selection *DeleteSelection) (banner Banner, err error) {
	if selection == nil {
		return Banner{Kind: BannerError, Text: msgDeleteFailed}, errors.New("no video selected for deletion")
	}
	if !c.begin(FlowDelete) {
		return Banner{Kind: BannerError, Text: msgBusy}, ErrFlowBusy
	}
	defer func() { c.finish(FlowDelete, err) }()

	removed, err := c.catalog.Remove(ctx, selection.ID)
	if err != nil {
		return Banner{Kind: BannerError, Text: msgDeleteFailed}, err
	}
	if !removed {
		c.logger.Warn("Video selected for deletion no longer exists", "video_id", selection.ID)
	}

	c.logger.Info("Video deleted", "video_id", selection.ID)
	return Banner{Kind: BannerSuccess, Text: MsgDeleted}, nil
}

// errorBanner shows validation messages verbatim and a generic message for everything else
func errorBanner(err error, fallback string) Banner {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return Banner{Kind: BannerError, Text: validationErr.Message}
	}
	return Banner{Kind: BannerError, Text: fallback}
}

func reporter(progress ProgressFunc) ProgressFunc {
	if progress == nil {
		return func(int) {}
	}
	return progress
}
