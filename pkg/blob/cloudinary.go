package blob

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads binaries (company logos, resumes) to Cloudinary
// and returns their secure URLs. Stored entities keep only the URL.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore builds a store from a cloudinary:// URL
func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("blob: cloudinary url is required")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("blob: init cloudinary: %w", err)
	}

	return &CloudinaryStore{cld: cld}, nil
}

// Upload stores data under folder and returns the public secure URL
func (s *CloudinaryStore) Upload(ctx context.Context, folder, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("blob: empty upload")
	}

	params := uploader.UploadParams{
		Folder:       folder,
		ResourceType: "auto",
	}
	if filename != "" {
		params.PublicID = strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	}

	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return "", fmt.Errorf("blob: upload: %w", err)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("blob: upload returned no url: %s", resp.Error.Message)
	}

	return resp.SecureURL, nil
}
