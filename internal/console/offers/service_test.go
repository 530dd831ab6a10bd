package offers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"partner-console/internal/common/api"
	"partner-console/internal/common/config"
	stderrors "partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/console/draftcache"
	"partner-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, draftcache.Store, *atomic.Int32) {
	t.Helper()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(config.APIConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 5000,
		UserAgent:      "console-test",
		Locale:         "en",
	}, api.NewMemorySessionStore("test-token"), logger.NewTestLogger(t))

	store := draftcache.NewMemoryStore()
	return NewService(client, store, logger.NewTestLogger(t)), store, &requests
}

func validOffer() models.Offer {
	return models.Offer{
		Title:      models.Bilingual("Spa day", "يوم سبا"),
		Price:      "150",
		CouponsQty: 10,
		CategoryID: 3,
		Status:     models.OfferActive,
		BranchIDs:  []string{"4"},
		Images:     []string{"https://cdn.example/main.jpg"},
	}
}

// ==========================
// Preconditions
// ==========================

func TestCreate_RequiresBranchSelection(t *testing.T) {
	svc, _, requests := newTestService(t, http.NotFoundHandler())

	offer := validOffer()
	offer.BranchIDs = nil

	err := svc.Create(context.Background(), offer, nil)
	require.Error(t, err)

	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodePreconditionFailed, stdErr.Code)
	assert.Equal(t, "Select at least one branch", stdErr.Message)
	assert.Equal(t, int32(0), requests.Load())
}

func TestCreate_ImageCount(t *testing.T) {
	tests := []struct {
		name     string
		existing int
		pending  int
		wantErr  string
	}{
		{"no images", 0, 0, "At least one image is required"},
		{"one existing", 1, 0, ""},
		{"eight total", 3, 5, ""},
		{"nine total", 4, 5, "At most 8 images are allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, requests := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			}))

			offer := validOffer()
			offer.Images = nil
			for i := 0; i < tt.existing; i++ {
				offer.Images = append(offer.Images, "https://cdn.example/img.jpg")
			}
			var pending []models.PendingFile
			for i := 0; i < tt.pending; i++ {
				pending = append(pending, models.PendingFile{Name: "p.jpg", Data: []byte("x")})
			}

			err := svc.Create(context.Background(), offer, pending)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, int32(0), requests.Load())
			}
		})
	}
}

// ==========================
// Submission
// ==========================

func TestCreate_SendsMultipartAndDropsDraftPreviews(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/offers", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Spa day", r.FormValue("title"))
		assert.Equal(t, "80", r.FormValue("options[0][price]"))
		w.Write([]byte(`{}`))
	})
	svc, store, _ := newTestService(t, handler)

	draftID := models.NewDraftID()
	require.NoError(t, store.Upsert(context.Background(), draftID, []string{"data:image/jpeg;base64,xx"}))

	offer := validOffer()
	offer.Options = []models.OfferOption{{
		ID:         draftID,
		Price:      "80",
		CouponsQty: 2,
		Title:      models.Bilingual("Single", "فردي"),
		AmenityIDs: []int64{1},
	}}

	require.NoError(t, svc.Create(context.Background(), offer, nil))

	rec, err := store.Get(context.Background(), draftID)
	require.NoError(t, err)
	assert.Nil(t, rec, "persisted drafts no longer need cached previews")
}

func TestUpdate_UsesMethodOverride(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/offers/21", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "PUT", r.FormValue("_method"))
		w.Write([]byte(`{}`))
	})
	svc, _, _ := newTestService(t, handler)

	require.NoError(t, svc.Update(context.Background(), 21, validOffer(), nil))
}

// ==========================
// Working Option List
// ==========================

func TestUpsertOption_ReplacesByIDElseAppends(t *testing.T) {
	offer := validOffer()
	first := models.OfferOption{ID: "draft-a", Price: "10"}
	second := models.OfferOption{ID: "draft-b", Price: "20"}

	UpsertOption(&offer, first)
	UpsertOption(&offer, second)
	require.Len(t, offer.Options, 2)

	edited := models.OfferOption{ID: "draft-a", Price: "15"}
	UpsertOption(&offer, edited)

	require.Len(t, offer.Options, 2)
	assert.Equal(t, "15", offer.Options[0].Price, "edited option replaced in place")
	assert.Equal(t, "20", offer.Options[1].Price)
}

func TestRemoveOption_DropsOptionAndCache(t *testing.T) {
	svc, store, _ := newTestService(t, http.NotFoundHandler())

	offer := validOffer()
	offer.Options = []models.OfferOption{{ID: "draft-a"}, {ID: "draft-b"}}
	require.NoError(t, store.Upsert(context.Background(), "draft-a", []string{"x"}))

	svc.RemoveOption(context.Background(), &offer, "draft-a")

	require.Len(t, offer.Options, 1)
	assert.Equal(t, "draft-b", offer.Options[0].ID)
	rec, err := store.Get(context.Background(), "draft-a")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestBackfillPreviews_RestoresOnlyDraftOptionsWithoutImages(t *testing.T) {
	svc, store, _ := newTestService(t, http.NotFoundHandler())
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "draft-a", []string{"data:1", "data:2"}))

	offer := validOffer()
	offer.Options = []models.OfferOption{
		{ID: "draft-a"},
		{ID: "42"},
		{ID: "draft-b", Images: []models.OptionImage{{URL: "kept"}}},
	}

	svc.BackfillPreviews(ctx, &offer)

	require.Len(t, offer.Options[0].Images, 2)
	assert.Equal(t, "data:1", offer.Options[0].Images[0].URL)
	assert.Empty(t, offer.Options[1].Images, "server options are never backfilled")
	assert.Equal(t, "kept", offer.Options[2].Images[0].URL, "in-memory images win over the cache")
}
