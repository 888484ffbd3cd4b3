package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing endpoint", cfg: Config{AccessKey: "a", SecretKey: "s", Bucket: "b"}},
		{name: "missing credentials", cfg: Config{Endpoint: "localhost:9000", Bucket: "b"}},
		{name: "missing bucket", cfg: Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, nil)
			require.Error(t, err)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	store, err := New(Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    " proposals ",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "proposals", store.Bucket())
	assert.Equal(t, defaultRegion, store.region)
	assert.Equal(t, DefaultURLExpiry, store.urlExpiry)
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "run/deck.pptx", want: "run/deck.pptx"},
		{in: "/run//deck.pptx", want: "run/deck.pptx"},
		{in: `run\deck.pptx`, want: "run/deck.pptx"},
		{in: "run/./deck.pptx", want: "run/deck.pptx"},
		{in: "", wantErr: true},
		{in: "/", wantErr: true},
		{in: "../secret", wantErr: true},
		{in: "run/../../secret", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeKey(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.presentationml.presentation", ContentType("a/deck.PPTX"))
	assert.Equal(t, "image/png", ContentType("d.png"))
	assert.Equal(t, "image/jpeg", ContentType("d.jpeg"))
	assert.Equal(t, "application/octet-stream", ContentType("notes"))
}
