package videos

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// blockingEncoder holds Encode until release is closed
type blockingEncoder struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (e *blockingEncoder) Encode(ctx context.Context, role MediaRole, source MediaSource) (EncodedMedia, error) {
	e.once.Do(func() { close(e.started) })
	<-e.release
	return EncodedMedia{DataURI: "data:image/png;base64,AA==", Embedded: true}, nil
}

func setupController(t *testing.T, repo *memoryRepository) *adminController {
	t.Helper()
	controller := NewAdminController(nil, NewCatalog(nil, repo), NewMediaEncoder(nil, testEmbedLimit)).(*adminController)
	controller.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return controller
}

func commercialForm() CreateForm {
	return CreateForm{
		Title:         "Brand Film",
		Description:   "Thirty second spot",
		Duration:      "0:30",
		Resolution:    "4K",
		Category:      CategoryCommercial,
		VideoFile:     BytesSource("spot.mp4", "video/mp4", []byte("video-bytes")),
		ThumbnailFile: BytesSource("spot.jpg", "image/jpeg", []byte("jpeg-bytes")),
	}
}

func TestAdminController_SubmitAppendsWithFreshID(t *testing.T) {
	repo := &memoryRepository{videos: []Video{createTestVideo("existing", time.Now())}}
	controller := setupController(t, repo)

	var progress []int
	video, banner, err := controller.Submit(context.Background(), commercialForm(), func(p int) { progress = append(progress, p) })
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if len(repo.videos) != 2 {
		t.Fatalf("Expected list to grow by one, got %d", len(repo.videos))
	}
	if video.ID == "" || video.ID == "existing" {
		t.Errorf("Expected a fresh id, got %q", video.ID)
	}
	if repo.videos[1].ID != video.ID {
		t.Error("New video must be appended at the end")
	}
	if !strings.HasPrefix(video.Thumbnail, "data:image/jpeg;base64,") || !strings.HasPrefix(video.VideoURL, "data:video/mp4;base64,") {
		t.Errorf("Expected embedded media, got %.40s / %.40s", video.Thumbnail, video.VideoURL)
	}
	if !video.DateAdded.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected dateAdded %v", video.DateAdded)
	}
	if banner.Kind != BannerSuccess || banner.Text != MsgCreated {
		t.Errorf("Unexpected banner %+v", banner)
	}
	if len(progress) != 4 || progress[0] != 10 || progress[3] != 100 {
		t.Errorf("Unexpected progress %v", progress)
	}
	if controller.State(FlowCreate) != StateSuccess {
		t.Errorf("Expected success state, got %s", controller.State(FlowCreate))
	}
}

func TestAdminController_SubmitYouTube(t *testing.T) {
	repo := &memoryRepository{}
	controller := setupController(t, repo)

	form := commercialForm()
	form.Category = CategoryYouTube
	form.YoutubeID = "dQw4w9WgXcQ"

	video, _, err := controller.Submit(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if video.YoutubeID != "dQw4w9WgXcQ" {
		t.Errorf("Expected youtube id to be stored, got %q", video.YoutubeID)
	}
	if video.VideoURL != "" {
		t.Error("Video file must be ignored for youtube videos")
	}
}

func TestAdminController_SubmitDropsYoutubeIDForOtherCategories(t *testing.T) {
	controller := setupController(t, &memoryRepository{})

	form := commercialForm()
	form.YoutubeID = "left-over-from-category-switch"

	video, _, err := controller.Submit(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if video.YoutubeID != "" {
		t.Errorf("Expected youtube id to be dropped, got %q", video.YoutubeID)
	}
}

func TestAdminController_SubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *CreateForm)
		want   string
	}{
		{"missing title", func(f *CreateForm) { f.Title = "" }, MsgRequiredFields},
		{"missing category", func(f *CreateForm) { f.Category = "" }, MsgRequiredFields},
		{"unknown category", func(f *CreateForm) { f.Category = "wedding" }, MsgInvalidCategory},
		{"youtube without id", func(f *CreateForm) { f.Category = CategoryYouTube }, MsgYoutubeIDRequired},
		{"commercial without file", func(f *CreateForm) { f.VideoFile = nil }, MsgVideoFileRequired},
		{"no thumbnail", func(f *CreateForm) { f.ThumbnailFile = nil }, MsgThumbnailRequired},
		{"missing fields win over missing files", func(f *CreateForm) { f.Duration = ""; f.ThumbnailFile = nil }, MsgRequiredFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepository{}
			controller := setupController(t, repo)
			form := commercialForm()
			tt.mutate(&form)

			_, banner, err := controller.Submit(context.Background(), form, nil)
			if !IsValidationError(err) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if banner.Kind != BannerError || banner.Text != tt.want {
				t.Errorf("Expected banner %q, got %+v", tt.want, banner)
			}
			if repo.saves != 0 {
				t.Error("Validation failures must not touch the store")
			}
			if controller.State(FlowCreate) != StateError {
				t.Errorf("Expected error state, got %s", controller.State(FlowCreate))
			}
		})
	}
}

func TestAdminController_SubmitTooLargeVideoStoresWithoutURL(t *testing.T) {
	repo := &memoryRepository{}
	controller := setupController(t, repo)
	controller.encoder = NewMediaEncoder(nil, 8)

	form := commercialForm()
	form.VideoFile = BytesSource("big.mp4", "video/mp4", make([]byte, 8))

	video, banner, err := controller.Submit(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if video.VideoURL != "" || video.HasVideo() {
		t.Error("Too large video must be stored without videoUrl")
	}
	if banner.Kind != BannerSuccess {
		t.Errorf("Too large video is still a successful upload, got %+v", banner)
	}
}

func TestAdminController_SubmitEncodingFailureLeavesStoreUnchanged(t *testing.T) {
	repo := &memoryRepository{}
	controller := setupController(t, repo)

	form := commercialForm()
	form.ThumbnailFile = failingSource{}

	_, banner, err := controller.Submit(context.Background(), form, nil)
	if !IsEncodingError(err) {
		t.Fatalf("Expected EncodingError, got %v", err)
	}
	if banner.Kind != BannerError {
		t.Errorf("Expected error banner, got %+v", banner)
	}
	if len(repo.videos) != 0 || repo.saves != 0 {
		t.Error("Store must be unchanged")
	}
}

func TestAdminController_SubmitRegeneratesCollidingID(t *testing.T) {
	repo := &memoryRepository{videos: []Video{createTestVideo("taken", time.Now())}}
	controller := setupController(t, repo)

	ids := []string{"taken", "free"}
	controller.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	video, _, err := controller.Submit(context.Background(), commercialForm(), nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if video.ID != "free" {
		t.Errorf("Expected regenerated id, got %q", video.ID)
	}
}

func TestAdminController_OverlappingSubmitIsRejected(t *testing.T) {
	repo := &memoryRepository{}
	controller := setupController(t, repo)
	encoder := &blockingEncoder{started: make(chan struct{}), release: make(chan struct{})}
	controller.encoder = encoder

	done := make(chan error, 1)
	go func() {
		_, _, err := controller.Submit(context.Background(), commercialForm(), nil)
		done <- err
	}()

	<-encoder.started
	if controller.State(FlowCreate) != StateSubmitting {
		t.Errorf("Expected submitting state, got %s", controller.State(FlowCreate))
	}

	_, _, err := controller.Submit(context.Background(), commercialForm(), nil)
	if !errors.Is(err, ErrFlowBusy) {
		t.Errorf("Expected ErrFlowBusy, got %v", err)
	}

	close(encoder.release)
	if err := <-done; err != nil {
		t.Fatalf("First submit failed: %v", err)
	}
	if len(repo.videos) != 1 {
		t.Errorf("Expected exactly one video, got %d", len(repo.videos))
	}
}

func TestAdminController_EditWithoutFilesKeepsMedia(t *testing.T) {
	original := createTestVideo("a", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	repo := &memoryRepository{videos: []Video{original, createTestVideo("b", time.Now())}}
	controller := setupController(t, repo)
	ctx := context.Background()

	session, err := controller.BeginEdit(ctx, "a")
	if err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	session.Video.Title = "New Title"

	var progress []int
	saved, banner, err := controller.SaveEdit(ctx, session, func(p int) { progress = append(progress, p) })
	if err != nil {
		t.Fatalf("SaveEdit failed: %v", err)
	}

	if saved.Title != "New Title" || saved.Thumbnail != original.Thumbnail || saved.VideoURL != original.VideoURL {
		t.Errorf("Unexpected saved video: %+v", saved)
	}
	if !saved.DateAdded.Equal(original.DateAdded) {
		t.Error("dateAdded must not change on edit")
	}
	if repo.videos[0].Title != "New Title" || len(repo.videos) != 2 {
		t.Errorf("Expected in-place replacement, got %+v", repo.videos)
	}
	if banner.Text != MsgUpdated {
		t.Errorf("Unexpected banner %+v", banner)
	}
	if len(progress) != 4 || progress[0] != 30 || progress[3] != 100 {
		t.Errorf("Unexpected progress %v", progress)
	}
}

func TestAdminController_EditReplacesOnlyNewMedia(t *testing.T) {
	original := createTestVideo("a", time.Now())
	repo := &memoryRepository{videos: []Video{original}}
	controller := setupController(t, repo)
	controller.encoder = NewMediaEncoder(nil, 8)
	ctx := context.Background()

	session, _ := controller.BeginEdit(ctx, "a")
	session.NewThumbnail = BytesSource("new.png", "image/png", []byte("png"))
	session.NewVideo = BytesSource("huge.mp4", "video/mp4", make([]byte, 32))

	saved, _, err := controller.SaveEdit(ctx, session, nil)
	if err != nil {
		t.Fatalf("SaveEdit failed: %v", err)
	}
	if !strings.HasPrefix(saved.Thumbnail, "data:image/png;base64,") {
		t.Errorf("Expected new thumbnail, got %.40s", saved.Thumbnail)
	}
	if saved.VideoURL != "" {
		t.Error("A too large replacement video must leave videoUrl absent")
	}
}

func TestAdminController_EditRevalidatesFields(t *testing.T) {
	repo := &memoryRepository{videos: []Video{createTestVideo("a", time.Now())}}
	controller := setupController(t, repo)
	ctx := context.Background()

	session, _ := controller.BeginEdit(ctx, "a")
	session.Video.Description = ""

	_, banner, err := controller.SaveEdit(ctx, session, nil)
	if !IsValidationError(err) || banner.Text != MsgRequiredFields {
		t.Fatalf("Expected required fields error, got %v / %+v", err, banner)
	}
	if repo.saves != 0 {
		t.Error("Store must be untouched")
	}
}

func TestAdminController_EditMissingVideo(t *testing.T) {
	controller := setupController(t, &memoryRepository{})

	if _, err := controller.BeginEdit(context.Background(), "ghost"); !IsVideoNotFoundError(err) {
		t.Errorf("Expected VideoNotFoundError, got %v", err)
	}
}

func TestAdminController_DeleteRemovesExactlyOne(t *testing.T) {
	now := time.Now()
	repo := &memoryRepository{videos: []Video{createTestVideo("a", now), createTestVideo("b", now), createTestVideo("c", now)}}
	controller := setupController(t, repo)
	ctx := context.Background()

	selection, err := controller.SelectForDelete(ctx, "b")
	if err != nil {
		t.Fatalf("SelectForDelete failed: %v", err)
	}
	if selection.Title != "Test Video b" {
		t.Errorf("Unexpected selection %+v", selection)
	}
	if len(repo.videos) != 3 {
		t.Fatal("Selecting must not delete")
	}

	banner, err := controller.ConfirmDelete(ctx, selection)
	if err != nil {
		t.Fatalf("ConfirmDelete failed: %v", err)
	}
	if banner.Text != MsgDeleted {
		t.Errorf("Unexpected banner %+v", banner)
	}
	if len(repo.videos) != 2 {
		t.Errorf("Expected exactly one removal, got %d left", len(repo.videos))
	}
	for _, v := range repo.videos {
		if v.ID == "b" {
			t.Error("Deleted video still present")
		}
	}
}

func TestAdminController_DeleteSaveFailure(t *testing.T) {
	repo := &memoryRepository{videos: []Video{createTestVideo("a", time.Now())}}
	controller := setupController(t, repo)
	ctx := context.Background()

	selection, _ := controller.SelectForDelete(ctx, "a")
	repo.saveErr = errors.New("read-only filesystem")

	banner, err := controller.ConfirmDelete(ctx, selection)
	if err == nil || banner.Kind != BannerError {
		t.Fatalf("Expected failure, got %v / %+v", err, banner)
	}
	if len(repo.videos) != 1 {
		t.Error("Store must be unchanged")
	}
	if controller.State(FlowDelete) != StateError {
		t.Errorf("Expected error state, got %s", controller.State(FlowDelete))
	}
}
