package assembler

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"partner-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type part struct {
	value    string
	filename string
}

// parseForm decodes a built form into name -> ordered parts.
func parseForm(t *testing.T, body io.Reader, contentType string) map[string][]part {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(body, params["boundary"])
	parts := make(map[string][]part)
	for {
		p, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(p)
		require.NoError(t, err)
		parts[p.FormName()] = append(parts[p.FormName()], part{
			value:    string(data),
			filename: p.FileName(),
		})
	}
	return parts
}

func fieldValue(t *testing.T, parts map[string][]part, name string) string {
	t.Helper()
	require.Len(t, parts[name], 1, "expected exactly one %s part", name)
	return parts[name][0].value
}

// ==========================
// Offer Encoding
// ==========================

func sampleOffer() models.Offer {
	return models.Offer{
		Title:       models.Bilingual("Spa day", "يوم سبا"),
		Description: models.Bilingual("Full access", "دخول كامل"),
		Price:       "150.00",
		CouponsQty:  20,
		CategoryID:  7,
		ValidUntil:  "2026-12-31",
		Status:      models.OfferActive,
		BranchIDs:   []string{"3", "8"},
		Options: []models.OfferOption{
			{
				ID:         "draft-0b1f2c3d",
				Price:      "80",
				CouponsQty: 5,
				Title:      models.Bilingual("Single", "فردي"),
				AmenityIDs: []int64{2, 5, 11},
				Images: []models.OptionImage{
					{URL: "https://cdn.example/kept.jpg"},
					{Pending: &models.PendingFile{Name: "pool.jpg", Data: []byte("jpegdata")}},
				},
			},
			{
				ID:         "42",
				Price:      "140",
				CouponsQty: 2,
				Title:      models.Bilingual("Couple", "زوجي"),
				AmenityIDs: []int64{2},
			},
		},
	}
}

func TestBuildOfferForm_FieldNaming(t *testing.T) {
	body, contentType, err := BuildOfferForm(sampleOffer(), nil, false)
	require.NoError(t, err)
	parts := parseForm(t, body, contentType)

	assert.Equal(t, "Spa day", fieldValue(t, parts, "title"))
	assert.Equal(t, "يوم سبا", fieldValue(t, parts, "title_ar"))
	assert.Equal(t, "150.00", fieldValue(t, parts, "price"))
	assert.Equal(t, "20", fieldValue(t, parts, "coupons_qty"))
	assert.Equal(t, "7", fieldValue(t, parts, "category_id"))
	assert.Equal(t, "active", fieldValue(t, parts, "status"))

	assert.Equal(t, "80", fieldValue(t, parts, "options[0][price]"))
	assert.Equal(t, "5", fieldValue(t, parts, "options[0][coupons_qty]"))
	assert.Equal(t, "Single", fieldValue(t, parts, "options[0][title]"))
	assert.Equal(t, "فردي", fieldValue(t, parts, "options[0][title_ar]"))
	assert.Equal(t, "Couple", fieldValue(t, parts, "options[1][title]"))

	// Creates carry no _method override.
	assert.Empty(t, parts["_method"])
}

func TestBuildOfferForm_RepeatedAmenities(t *testing.T) {
	body, contentType, err := BuildOfferForm(sampleOffer(), nil, false)
	require.NoError(t, err)
	parts := parseForm(t, body, contentType)

	amenities := parts["options[0][amenities][]"]
	require.Len(t, amenities, 3)
	assert.Equal(t, "2", amenities[0].value)
	assert.Equal(t, "5", amenities[1].value)
	assert.Equal(t, "11", amenities[2].value)
}

func TestBuildOfferForm_DraftIDOmittedServerIDKept(t *testing.T) {
	body, contentType, err := BuildOfferForm(sampleOffer(), nil, false)
	require.NoError(t, err)
	parts := parseForm(t, body, contentType)

	assert.Empty(t, parts["options[0][id]"], "client draft IDs never reach the wire")
	assert.Equal(t, "42", fieldValue(t, parts, "options[1][id]"))
}

func TestBuildOfferForm_OnlyNewFilesAreSent(t *testing.T) {
	newImages := []models.PendingFile{
		{Name: "front.jpg", Data: []byte("aaa")},
		{Name: "back.jpg", Data: []byte("bbb")},
	}
	body, contentType, err := BuildOfferForm(sampleOffer(), newImages, false)
	require.NoError(t, err)
	parts := parseForm(t, body, contentType)

	require.Len(t, parts["images[0]"], 1)
	assert.Equal(t, "front.jpg", parts["images[0]"][0].filename)
	assert.Equal(t, "aaa", parts["images[0]"][0].value)
	require.Len(t, parts["images[1]"], 1)
	assert.Equal(t, "back.jpg", parts["images[1]"][0].filename)

	// Option images: the hosted URL stays out, the pending file goes in.
	optionImages := parts["options[0][images][]"]
	require.Len(t, optionImages, 1)
	assert.Equal(t, "pool.jpg", optionImages[0].filename)
	for name, ps := range parts {
		for _, p := range ps {
			if p.filename == "" {
				assert.NotContains(t, p.value, "https://cdn.example/kept.jpg",
					"hosted image leaked into field %s", name)
			}
		}
	}
}

func TestBuildOfferForm_UpdateCarriesMethodOverride(t *testing.T) {
	body, contentType, err := BuildOfferForm(sampleOffer(), nil, true)
	require.NoError(t, err)
	parts := parseForm(t, body, contentType)

	assert.Equal(t, "PUT", fieldValue(t, parts, "_method"))
}

func TestBuildOfferForm_BranchSentinel(t *testing.T) {
	offer := sampleOffer()
	offer.BranchIDs = []string{models.BranchSentinelAll}

	body, contentType, err := BuildOfferForm(offer, nil, false)
	require.NoError(t, err)
	parts := parseForm(t, body, contentType)

	branches := parts["branches[]"]
	require.Len(t, branches, 1)
	assert.Equal(t, "all", branches[0].value)
}

func TestBuildOfferForm_OmitsEmptyVideo(t *testing.T) {
	offer := sampleOffer()
	offer.VideoURL = ""
	body, contentType, err := BuildOfferForm(offer, nil, false)
	require.NoError(t, err)
	assert.Empty(t, parseForm(t, body, contentType)["video"])

	offer.VideoURL = "https://cdn.example/tour.mp4"
	body, contentType, err = BuildOfferForm(offer, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/tour.mp4",
		fieldValue(t, parseForm(t, body, contentType), "video"))
}

// ==========================
// Form Builder
// ==========================

func TestForm_StickyError(t *testing.T) {
	f := NewForm()
	f.err = io.ErrClosedPipe
	f.Field("title", "x").Int("n", 1)

	_, _, err := f.Close()
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestForm_IndexedAndRepeatedNaming(t *testing.T) {
	f := NewForm()
	f.Indexed("options", 3, "price", "10").Repeated("branches", "7")

	body, _, err := f.Close()
	require.NoError(t, err)
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	s := string(raw)
	assert.True(t, strings.Contains(s, `name="options[3][price]"`))
	assert.True(t, strings.Contains(s, `name="branches[]"`))
}
