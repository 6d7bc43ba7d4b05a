package shopware

import (
	"context"
	"math/rand"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/mrKrabsmr/test-task-grabber/pkg/scraper"
)

const suffixLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// uploadImages creates and uploads a media object per image URL, in order.
// The first image that makes it through both steps becomes the cover; every
// later success joins the gallery. A failure at either step skips that
// image only; the product is still submitted with whatever survived.
func (c *Client) uploadImages(ctx context.Context, p scraper.Product) (cover *MediaRef, gallery []MediaRef) {
	var folder *string
	folderID, err := c.resolver.ProductMediaFolderID(ctx)
	if err != nil {
		c.log.Errorw("could not resolve product media folder", "error", err)
	} else if folderID != "" {
		folder = &folderID
	}

	for _, imageURL := range p.ImageURLs {
		mediaID := newMediaID()

		status, raw, err := c.doJSON(ctx, http.MethodPost, "/api/media", mediaCreateRequest{
			ID:            mediaID,
			Private:       false,
			MediaFolderID: folder,
		}, nil)
		if err != nil || status != http.StatusNoContent {
			c.log.Errorw("could not create media | skip",
				"image", imageURL, "status", status, "response", string(raw), "error", err)
			continue
		}

		base, ext := splitImageName(imageURL)
		q := url.Values{
			"extension": {ext},
			"fileName":  {base + randomSuffix(5)},
		}
		uploadPath := "/api/_action/media/" + mediaID + "/upload?" + q.Encode()

		status, raw, err = c.doJSON(ctx, http.MethodPost, uploadPath, mediaUploadRequest{URL: imageURL}, nil)
		if err != nil || status != http.StatusNoContent {
			c.log.Errorw("could not upload media from url | skip",
				"image", imageURL, "status", status, "response", string(raw), "error", err)
			continue
		}

		if cover == nil {
			cover = &MediaRef{MediaID: mediaID}
			continue
		}
		gallery = append(gallery, MediaRef{MediaID: mediaID})
	}

	return cover, gallery
}

// newMediaID returns a client-generated media identifier in the 32-hex form
// the API expects.
func newMediaID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// splitImageName derives the upload file name and extension from the source
// URL's last path segment.
func splitImageName(imageURL string) (base, ext string) {
	name := imageURL
	if u, err := url.Parse(imageURL); err == nil && u.Path != "" {
		name = u.Path
	}
	name = path.Base(name)
	ext = strings.TrimPrefix(path.Ext(name), ".")
	base = strings.TrimSuffix(name, path.Ext(name))
	return base, ext
}

// randomSuffix avoids collisions with previously uploaded files that share
// a base name.
func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixLetters[rand.Intn(len(suffixLetters))]
	}
	return string(b)
}
