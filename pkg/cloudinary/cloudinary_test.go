package cloudinary

import (
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{CloudName: "demo"}, zerolog.Nop())
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestResourceType(t *testing.T) {
	require.Equal(t, "raw", resourceType("issue-12.PDF"))
	require.Equal(t, "raw", resourceType("dataset.zip"))
	require.Equal(t, "image", resourceType("cover.png"))
}

func TestPublicID(t *testing.T) {
	require.Regexp(t, regexp.MustCompile(`^tap-chi-so-3-[0-9a-f]{8}\.pdf$`), publicID("Tap chi so 3.pdf"))
	require.Regexp(t, regexp.MustCompile(`^cover-[0-9a-f]{8}$`), publicID("../Cover.JPG"))
	require.Regexp(t, regexp.MustCompile(`^upload-[0-9a-f]{8}$`), publicID("###.png"))
	require.NotEqual(t, publicID("a.png"), publicID("a.png"))
}
