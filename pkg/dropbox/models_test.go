package dropbox

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteModeJSON(t *testing.T) {
	tests := []struct {
		name     string
		mode     WriteMode
		expected string
	}{
		{"add", WriteModeAdd, `{".tag":"add"}`},
		{"overwrite", WriteModeOverwrite, `{".tag":"overwrite"}`},
		{"update", WriteModeUpdate("a1c10ce0dd78"), `{".tag":"update","update":"a1c10ce0dd78"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestUploadRequestAPIArg(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		arg, err := UploadRequest{Path: "/a.txt"}.apiArg()
		require.NoError(t, err)
		assert.Equal(t, `{"path":"/a.txt","mode":{".tag":"add"},"autorename":false,"mute":false}`, arg)
	})

	t.Run("update mode with client_modified", func(t *testing.T) {
		modified := time.Date(2017, 1, 2, 3, 4, 5, 0, time.UTC)
		arg, err := UploadRequest{
			Path:           "/a.txt",
			Mode:           WriteModeUpdate("rev123"),
			Autorename:     true,
			ClientModified: &modified,
			Mute:           true,
		}.apiArg()
		require.NoError(t, err)
		assert.Equal(t, `{"path":"/a.txt","mode":{".tag":"update","update":"rev123"},"autorename":true,"client_modified":"2017-01-02T03:04:05Z","mute":true}`, arg)
	})

	t.Run("client_modified normalized to UTC", func(t *testing.T) {
		helsinki := time.FixedZone("EET", 2*60*60)
		modified := time.Date(2017, 1, 2, 5, 4, 5, 0, helsinki)
		arg, err := UploadRequest{Path: "/a.txt", ClientModified: &modified}.apiArg()
		require.NoError(t, err)
		assert.Contains(t, arg, `"client_modified":"2017-01-02T03:04:05Z"`)
	})
}

const uploadResponseFull = `{
	"name": "photo.jpg",
	"id": "id:a4ayc_80_OEAAAAAAAAAXw",
	"client_modified": "2017-01-02T03:04:05Z",
	"server_modified": "2017-01-02T03:04:06Z",
	"rev": "a1c10ce0dd78",
	"size": 7212,
	"path_lower": "/homework/photo.jpg",
	"path_display": "/Homework/photo.jpg",
	"media_info": {
		".tag": "metadata",
		"metadata": {
			".tag": "photo",
			"dimensions": {"height": 600, "width": 800},
			"location": {"latitude": 60.17, "longitude": 24.94},
			"time_taken": "2016-09-04T17:00:27Z"
		}
	},
	"sharing_info": {
		"read_only": true,
		"parent_shared_folder_id": "84528192421",
		"modified_by": "dbid:AAH4f99T0taONIb-OurWxbNQ6ywGRopQngc"
	},
	"property_groups": [
		{
			"template_id": "ptid:1a5n2i6d3OYEAAAAAAAAAYa",
			"fields": [{"name": "Security Policy", "value": "Confidential"}]
		}
	],
	"has_explicit_shared_members": false,
	"content_hash": "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
}`

func TestUploadResponseDecode(t *testing.T) {
	var response UploadResponse
	require.NoError(t, json.Unmarshal([]byte(uploadResponseFull), &response))

	assert.Equal(t, "photo.jpg", response.Name)
	assert.Equal(t, "id:a4ayc_80_OEAAAAAAAAAXw", response.ID)
	assert.Equal(t, time.Date(2017, 1, 2, 3, 4, 5, 0, time.UTC), response.ClientModified.UTC())
	assert.Equal(t, time.Date(2017, 1, 2, 3, 4, 6, 0, time.UTC), response.ServerModified.UTC())
	assert.Equal(t, "a1c10ce0dd78", response.Rev)
	assert.Equal(t, uint64(7212), response.Size)

	require.NotNil(t, response.PathLower)
	assert.Equal(t, "/homework/photo.jpg", *response.PathLower)
	require.NotNil(t, response.PathDisplay)
	assert.Equal(t, "/Homework/photo.jpg", *response.PathDisplay)

	require.NotNil(t, response.MediaInfo)
	require.NotNil(t, response.MediaInfo.Metadata)
	photo := response.MediaInfo.Metadata.Photo
	require.NotNil(t, photo)
	assert.Nil(t, response.MediaInfo.Metadata.Video)
	assert.Equal(t, uint64(800), photo.Dimensions.Width)
	assert.Equal(t, uint64(600), photo.Dimensions.Height)
	assert.InDelta(t, 60.17, photo.Location.Latitude, 0.001)
	assert.InDelta(t, 24.94, photo.Location.Longitude, 0.001)

	require.NotNil(t, response.SharingInfo)
	assert.True(t, response.SharingInfo.ReadOnly)
	assert.Equal(t, "84528192421", response.SharingInfo.ParentSharedFolderID)
	require.NotNil(t, response.SharingInfo.ModifiedBy)

	require.Len(t, response.PropertyGroups, 1)
	assert.Equal(t, "ptid:1a5n2i6d3OYEAAAAAAAAAYa", response.PropertyGroups[0].TemplateID)
	require.Len(t, response.PropertyGroups[0].Fields, 1)
	assert.Equal(t, "Security Policy", response.PropertyGroups[0].Fields[0].Name)
	assert.Equal(t, "Confidential", response.PropertyGroups[0].Fields[0].Value)

	require.NotNil(t, response.HasExplicitSharedMembers)
	assert.False(t, *response.HasExplicitSharedMembers)
	require.NotNil(t, response.ContentHash)
}

func TestUploadResponseDecodeMinimal(t *testing.T) {
	minimal := `{"name":"a.txt","id":"id:1","client_modified":"2017-01-02T03:04:05Z","server_modified":"2017-01-02T03:04:05Z","rev":"r1","size":3}`

	var response UploadResponse
	require.NoError(t, json.Unmarshal([]byte(minimal), &response))
	assert.Equal(t, "a.txt", response.Name)
	assert.Nil(t, response.PathLower)
	assert.Nil(t, response.PathDisplay)
	assert.Nil(t, response.ParentSharedFolderID)
	assert.Nil(t, response.MediaInfo)
	assert.Nil(t, response.SharingInfo)
	assert.Nil(t, response.PropertyGroups)
	assert.Nil(t, response.HasExplicitSharedMembers)
	assert.Nil(t, response.ContentHash)
}

func TestUploadResponseDecodeMissingRequired(t *testing.T) {
	required := []string{"name", "id", "client_modified", "server_modified", "rev", "size"}
	for _, strip := range required {
		t.Run("missing "+strip, func(t *testing.T) {
			fields := map[string]any{
				"name":            "a.txt",
				"id":              "id:1",
				"client_modified": "2017-01-02T03:04:05Z",
				"server_modified": "2017-01-02T03:04:05Z",
				"rev":             "r1",
				"size":            3,
			}
			delete(fields, strip)
			data, err := json.Marshal(fields)
			require.NoError(t, err)

			var response UploadResponse
			err = json.Unmarshal(data, &response)
			require.Error(t, err)
			assert.Contains(t, err.Error(), strip)
		})
	}
}

func TestUploadResponseDecodeMistyped(t *testing.T) {
	mistyped := `{"name":"a.txt","id":"id:1","client_modified":"2017-01-02T03:04:05Z","server_modified":"2017-01-02T03:04:05Z","rev":"r1","size":"big"}`

	var response UploadResponse
	assert.Error(t, json.Unmarshal([]byte(mistyped), &response))
}

func TestUploadResponseDecodeLargeSize(t *testing.T) {
	// 2^53 + 1: decoding through a float64 would silently round this.
	large := `{"name":"a.bin","id":"id:1","client_modified":"2017-01-02T03:04:05Z","server_modified":"2017-01-02T03:04:05Z","rev":"r1","size":9007199254740993}`

	var response UploadResponse
	require.NoError(t, json.Unmarshal([]byte(large), &response))
	assert.Equal(t, uint64(9007199254740993), response.Size)
}

func TestMediaInfoDecode(t *testing.T) {
	t.Run("pending", func(t *testing.T) {
		var info MediaInfo
		require.NoError(t, json.Unmarshal([]byte(`{".tag":"pending"}`), &info))
		assert.True(t, info.Pending())
		assert.Nil(t, info.Metadata)
	})

	t.Run("video metadata", func(t *testing.T) {
		payload := `{".tag":"metadata","metadata":{".tag":"video","dimensions":{"height":1080,"width":1920},"duration":125000}}`
		var info MediaInfo
		require.NoError(t, json.Unmarshal([]byte(payload), &info))
		assert.False(t, info.Pending())
		require.NotNil(t, info.Metadata)
		video := info.Metadata.Video
		require.NotNil(t, video)
		assert.Nil(t, info.Metadata.Photo)
		assert.Equal(t, uint64(1920), video.Dimensions.Width)
		require.NotNil(t, video.Duration)
		assert.Equal(t, uint64(125000), *video.Duration)
		assert.Nil(t, video.TimeTaken)
	})

	t.Run("unknown tag", func(t *testing.T) {
		var info MediaInfo
		err := json.Unmarshal([]byte(`{".tag":"hologram"}`), &info)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hologram")
	})

	t.Run("metadata tag without payload", func(t *testing.T) {
		var info MediaInfo
		assert.Error(t, json.Unmarshal([]byte(`{".tag":"metadata"}`), &info))
	})

	t.Run("unknown metadata tag", func(t *testing.T) {
		var info MediaInfo
		err := json.Unmarshal([]byte(`{".tag":"metadata","metadata":{".tag":"audio"}}`), &info)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "audio")
	})
}

func TestMediaMetadataMarshalRoundTrip(t *testing.T) {
	taken := time.Date(2016, 9, 4, 17, 0, 27, 0, time.UTC)
	metadata := MediaMetadata{Photo: &PhotoMetadata{
		Dimensions: &Dimensions{Height: 600, Width: 800},
		TimeTaken:  &taken,
	}}

	data, err := json.Marshal(metadata)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{".tag":"photo"`), "tag must lead: %s", data)

	var decoded MediaMetadata
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Photo)
	assert.Equal(t, metadata.Photo.Dimensions, decoded.Photo.Dimensions)
	require.NotNil(t, decoded.Photo.TimeTaken)
	assert.True(t, taken.Equal(*decoded.Photo.TimeTaken))
}

func TestMediaMetadataMarshalEmpty(t *testing.T) {
	_, err := json.Marshal(MediaMetadata{})
	assert.Error(t, err)
}
