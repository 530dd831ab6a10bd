package composer

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/disintegration/imaging"

	"partner-console/internal/common/errors"
	"partner-console/internal/models"
)

// AddImage appends a pending file to the draft's image list.
func (c *Composer) AddImage(file models.PendingFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return errors.NewDraftInvalidError("No option is being edited")
	}
	if len(c.draft.Images) >= c.maxImages {
		return errors.NewDraftInvalidError(fmt.Sprintf("At most %d images are allowed", c.maxImages))
	}

	c.draft.Images = append(c.draft.Images, models.OptionImage{Pending: &file})
	return nil
}

// RemoveImage deletes the image at index, dropping any in-memory file data it
// held.
func (c *Composer) RemoveImage(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.draft.Images) {
		return errors.NewDraftInvalidError("No image at that position")
	}

	c.draft.Images[index].Pending = nil
	c.draft.Images = append(c.draft.Images[:index], c.draft.Images[index+1:]...)
	return nil
}

// MoveImage relocates the image at from to position to, shifting the images
// in between rather than swapping, so the relative order of the others is
// preserved.
func (c *Composer) MoveImage(from, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.draft.Images)
	if from < 0 || from >= n || to < 0 || to >= n {
		return errors.NewDraftInvalidError("No image at that position")
	}
	if from == to {
		return nil
	}

	img := c.draft.Images[from]
	rest := append(c.draft.Images[:from], c.draft.Images[from+1:]...)
	c.draft.Images = append(rest[:to], append([]models.OptionImage{img}, rest[to:]...)...)
	return nil
}

// previewDataURL downscales a pending image to the preview width and embeds
// it as a base64 JPEG data URL. Images already narrower than the target are
// embedded at their original size.
func previewDataURL(file *models.PendingFile, width int) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", file.Name, err)
	}

	if width > 0 && img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("encode %s: %w", file.Name, err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
