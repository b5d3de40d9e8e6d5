package catalog

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vendorpanel/internal/models"
)

const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// StagedImage is a locally held upload the platform knows nothing about yet.
// It is identified only by its position in the staged sequence.
type StagedImage struct {
	Name string
	MIME string
	Data []byte

	previewPath string
}

// RejectedImage reports one file refused by AddStaged, without blocking the
// files that were accepted.
type RejectedImage struct {
	Name   string
	Reason string
}

// ImageSet owns a product's full image state while the editor is open:
// persisted images, staged uploads, deletion markers and the primary
// designation. It never talks to the network.
type ImageSet struct {
	existing []models.ProductImage
	staged   []*StagedImage
	deleted  map[string]struct{}
	primary  string
}

// NewImageSet hydrates the manager from the images returned with a fetched
// product. The platform's primary flag seeds the local designation.
func NewImageSet(existing []models.ProductImage) *ImageSet {
	s := &ImageSet{
		existing: append([]models.ProductImage(nil), existing...),
		deleted:  make(map[string]struct{}),
	}
	for _, img := range s.existing {
		if img.IsPrimary {
			s.primary = img.ID
			break
		}
	}
	return s
}

// AddStaged stages the acceptable files and reports the rest. The MIME type
// is sniffed from the bytes rather than trusted from any header.
func (s *ImageSet) AddStaged(files ...StagedImage) []RejectedImage {
	var rejected []RejectedImage
	for _, file := range files {
		if len(file.Data) > MaxImageSize {
			rejected = append(rejected, RejectedImage{Name: file.Name, Reason: "image file too large (max 5MB)"})
			continue
		}
		mime := http.DetectContentType(file.Data)
		if _, ok := allowedImageTypes[mime]; !ok {
			rejected = append(rejected, RejectedImage{Name: file.Name, Reason: fmt.Sprintf("unsupported image type: %s", mime)})
			continue
		}
		staged := file
		staged.MIME = mime
		s.staged = append(s.staged, &staged)
	}
	return rejected
}

// RemoveStaged drops one staged file and releases its preview, if any.
func (s *ImageSet) RemoveStaged(index int) {
	if index < 0 || index >= len(s.staged) {
		return
	}
	releasePreview(s.staged[index])
	s.staged = append(s.staged[:index], s.staged[index+1:]...)
}

// RemoveExisting marks a persisted image for deletion. If it carried the
// primary designation, the first remaining persisted image inherits it, or
// the designation is cleared when none remain. The primary id never points
// at a deleted image.
func (s *ImageSet) RemoveExisting(imageID string) {
	found := false
	for _, img := range s.existing {
		if img.ID == imageID {
			found = true
			break
		}
	}
	if !found {
		return
	}
	if _, gone := s.deleted[imageID]; gone {
		return
	}

	s.deleted[imageID] = struct{}{}

	if s.primary == imageID {
		s.primary = ""
		for _, img := range s.existing {
			if _, gone := s.deleted[img.ID]; gone {
				continue
			}
			s.primary = img.ID
			break
		}
	}
}

// SetPrimary designates a persisted image as primary. Unknown or deleted
// ids are ignored.
func (s *ImageSet) SetPrimary(imageID string) {
	if _, gone := s.deleted[imageID]; gone {
		return
	}
	for _, img := range s.existing {
		if img.ID == imageID {
			s.primary = imageID
			return
		}
	}
}

// Existing returns the persisted images not marked for deletion, in their
// original order, with the primary flag reflecting the local designation.
func (s *ImageSet) Existing() []models.ProductImage {
	out := make([]models.ProductImage, 0, len(s.existing))
	for _, img := range s.existing {
		if _, gone := s.deleted[img.ID]; gone {
			continue
		}
		img.IsPrimary = img.ID == s.primary
		out = append(out, img)
	}
	return out
}

// Staged returns the pending uploads in upload order.
func (s *ImageSet) Staged() []*StagedImage {
	return append([]*StagedImage(nil), s.staged...)
}

// DeletedIDs lists the persisted images queued for deletion. It is always
// sent on update, even when empty, so the platform can reconcile the set.
func (s *ImageSet) DeletedIDs() []string {
	out := make([]string, 0, len(s.deleted))
	for _, img := range s.existing {
		if _, gone := s.deleted[img.ID]; gone {
			out = append(out, img.ID)
		}
	}
	return out
}

// PrimaryID returns the current primary designation, or "" when unset.
func (s *ImageSet) PrimaryID() string { return s.primary }

// PreviewPath materializes a staged file into a temp file so it can be
// rendered before upload. The path stays valid until the staged file is
// removed or ReleasePreviews is called.
func (s *ImageSet) PreviewPath(index int) (string, error) {
	if index < 0 || index >= len(s.staged) {
		return "", fmt.Errorf("no staged image at index %d", index)
	}
	staged := s.staged[index]
	if staged.previewPath != "" {
		return staged.previewPath, nil
	}

	name := uuid.NewString() + allowedImageTypes[staged.MIME]
	path := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(path, staged.Data, 0o644); err != nil {
		return "", err
	}
	staged.previewPath = path
	return path, nil
}

// ReleasePreviews removes every materialized preview file. Callers must
// invoke it when the editor goes away.
func (s *ImageSet) ReleasePreviews() {
	for _, staged := range s.staged {
		releasePreview(staged)
	}
}

func releasePreview(staged *StagedImage) {
	if staged.previewPath == "" {
		return
	}
	// Previews only ever live under the temp dir; refuse anything else.
	if strings.HasPrefix(filepath.Clean(staged.previewPath), filepath.Clean(os.TempDir())) {
		_ = os.Remove(staged.previewPath)
	}
	staged.previewPath = ""
}
