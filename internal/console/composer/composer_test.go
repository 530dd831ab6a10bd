package composer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"partner-console/internal/common/config"
	stderrors "partner-console/internal/common/errors"
	"partner-console/internal/common/logger"
	"partner-console/internal/console/draftcache"
	"partner-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposer(t *testing.T) (*Composer, draftcache.Store) {
	t.Helper()
	store := draftcache.NewMemoryStore()
	uploads := config.UploadsConfig{MaxImages: 8, ThumbnailWidth: 320}
	return New(store, uploads, logger.NewTestLogger(t)), store
}

// pngBytes renders a solid square so previews have real image data to decode.
func pngBytes(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fillValid(c *Composer) {
	c.SetPrice("99.50")
	c.SetCouponsQty(3)
	c.SetTitle("Morning pass", "تذكرة صباحية")
	c.SetDescription("Access until noon", "دخول حتى الظهر")
	c.SetAmenities([]int64{4, 9})
}

// ==========================
// Field Validation
// ==========================

func TestComposer_FinalizeReportsFirstViolation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Composer)
		expected string
	}{
		{
			name:     "missing price",
			mutate:   func(c *Composer) { c.SetPrice("") },
			expected: "Price is required",
		},
		{
			name:     "non-numeric price",
			mutate:   func(c *Composer) { c.SetPrice("free") },
			expected: "Price must be a positive number",
		},
		{
			name:     "zero price",
			mutate:   func(c *Composer) { c.SetPrice("0") },
			expected: "Price must be a positive number",
		},
		{
			name:     "zero coupons",
			mutate:   func(c *Composer) { c.SetCouponsQty(0) },
			expected: "Coupons quantity must be at least 1",
		},
		{
			name:     "missing english title",
			mutate:   func(c *Composer) { c.SetTitle("", "تذكرة") },
			expected: "English title is required",
		},
		{
			name:     "missing arabic title",
			mutate:   func(c *Composer) { c.SetTitle("Pass", "  ") },
			expected: "Arabic title is required",
		},
		{
			name:     "no amenities",
			mutate:   func(c *Composer) { c.SetAmenities(nil) },
			expected: "Select at least one amenity",
		},
		{
			name: "price violation wins over later ones",
			mutate: func(c *Composer) {
				c.SetPrice("")
				c.SetTitle("", "")
				c.SetAmenities(nil)
			},
			expected: "Price is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestComposer(t)
			c.Open()
			fillValid(c)
			tt.mutate(c)

			_, err := c.Finalize(context.Background())
			require.Error(t, err)
			assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeDraftInvalid))
			assert.Contains(t, err.Error(), tt.expected)
			assert.True(t, c.IsOpen(), "session stays open for correction")
		})
	}
}

// ==========================
// Finalize
// ==========================

func TestComposer_FinalizeAssignsClientID(t *testing.T) {
	c, store := newTestComposer(t)
	c.Open()
	fillValid(c)

	opt, err := c.Finalize(context.Background())
	require.NoError(t, err)

	assert.True(t, models.IsDraftID(opt.ID))
	assert.False(t, c.IsOpen(), "session closes after finalize")

	rec, err := store.Get(context.Background(), opt.ID)
	require.NoError(t, err)
	require.NotNil(t, rec, "previews cached under the new ID")
}

func TestComposer_FinalizeReusesEditingID(t *testing.T) {
	c, _ := newTestComposer(t)
	c.OpenWith(models.OfferOption{
		ID:         "42",
		Price:      "10",
		CouponsQty: 1,
		Title:      models.Bilingual("Pass", "تذكرة"),
		AmenityIDs: []int64{1},
	})

	opt, err := c.Finalize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", opt.ID)
}

func TestComposer_FinalizeCachesPreviewsInOrder(t *testing.T) {
	c, store := newTestComposer(t)
	c.Open()
	fillValid(c)

	c.draft.Images = []models.OptionImage{{URL: "https://cdn.example/a.jpg"}}
	require.NoError(t, c.AddImage(models.PendingFile{
		Name: "new.png", Mime: "image/png", Data: pngBytes(t, 640),
	}))

	opt, err := c.Finalize(context.Background())
	require.NoError(t, err)

	rec, err := store.Get(context.Background(), opt.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Len(t, rec.Images, 2)
	assert.Equal(t, "https://cdn.example/a.jpg", rec.Images[0])
	assert.True(t, strings.HasPrefix(rec.Images[1], "data:image/jpeg;base64,"),
		"pending file is embedded as a downscaled data URL")
}

func TestComposer_FinalizeWithoutOpenSession(t *testing.T) {
	c, _ := newTestComposer(t)
	_, err := c.Finalize(context.Background())
	require.Error(t, err)
	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeDraftInvalid))
}

// ==========================
// Legacy Shape Normalization
// ==========================

func TestComposer_OpenWithNormalizesLegacyImage(t *testing.T) {
	c, _ := newTestComposer(t)
	c.OpenWith(models.OfferOption{
		ID:    "17",
		Image: "https://cdn.example/legacy.jpg",
	})

	draft := c.Draft()
	require.Len(t, draft.Images, 1)
	assert.Equal(t, "https://cdn.example/legacy.jpg", draft.Images[0].URL)
	assert.Empty(t, draft.Image)
}

// ==========================
// Image List Editing
// ==========================

func TestComposer_AddImageEnforcesCap(t *testing.T) {
	c, _ := newTestComposer(t)
	c.Open()

	for i := 0; i < 8; i++ {
		require.NoError(t, c.AddImage(models.PendingFile{Name: "f.png"}))
	}

	err := c.AddImage(models.PendingFile{Name: "over.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "At most 8 images")
}

func TestComposer_MoveImageSplicesNotSwaps(t *testing.T) {
	c, _ := newTestComposer(t)
	c.Open()
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, c.AddImage(models.PendingFile{Name: name}))
	}

	// Moving a to position 2 shifts b and c up; nothing is swapped.
	require.NoError(t, c.MoveImage(0, 2))

	var names []string
	for _, img := range c.Draft().Images {
		names = append(names, img.Pending.Name)
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, names)
}

func TestComposer_RemoveImage(t *testing.T) {
	c, _ := newTestComposer(t)
	c.Open()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, c.AddImage(models.PendingFile{Name: name}))
	}

	require.NoError(t, c.RemoveImage(1))

	draft := c.Draft()
	require.Len(t, draft.Images, 2)
	assert.Equal(t, "a", draft.Images[0].Pending.Name)
	assert.Equal(t, "c", draft.Images[1].Pending.Name)

	assert.Error(t, c.RemoveImage(5))
}

func TestComposer_CancelDropsDraft(t *testing.T) {
	c, _ := newTestComposer(t)
	c.Open()
	fillValid(c)
	require.NoError(t, c.AddImage(models.PendingFile{Name: "a"}))

	c.Cancel()

	assert.False(t, c.IsOpen())
	assert.Empty(t, c.Draft().Images)
}
