// Package dropbox (models.go) defines the data structures for Dropbox API
// requests and responses: upload arguments, file metadata, and the tagged
// unions Dropbox uses for media information. Response decoding is strict
// about required fields so a malformed payload surfaces as an error at the
// call site instead of as zero values deep in application code.
package dropbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// WriteMode selects what happens when the upload path already exists.
// Dropbox encodes it as a tagged union; the zero value is treated as add.
type WriteMode struct {
	Tag    string `json:".tag"`
	Update string `json:"update,omitempty"`
}

var (
	// WriteModeAdd never overwrites: on conflict the server picks a new name.
	WriteModeAdd = WriteMode{Tag: "add"}

	// WriteModeOverwrite always replaces the existing file.
	WriteModeOverwrite = WriteMode{Tag: "overwrite"}
)

// WriteModeUpdate overwrites only when the file's current revision still
// matches rev, like a compare-and-swap.
func WriteModeUpdate(rev string) WriteMode {
	return WriteMode{Tag: "update", Update: rev}
}

// UploadRequest describes a files/upload call.
type UploadRequest struct {
	Path           string
	Mode           WriteMode
	Autorename     bool
	ClientModified *time.Time
	Mute           bool
	Content        []byte
}

// uploadArg is the Dropbox-API-Arg payload for files/upload.
type uploadArg struct {
	Path           string    `json:"path"`
	Mode           WriteMode `json:"mode"`
	Autorename     bool      `json:"autorename"`
	ClientModified string    `json:"client_modified,omitempty"`
	Mute           bool      `json:"mute"`
}

// apiArg renders the request's Dropbox-API-Arg header value: compact JSON
// with client_modified present only when the caller set it.
func (r UploadRequest) apiArg() (string, error) {
	mode := r.Mode
	if mode.Tag == "" {
		mode = WriteModeAdd
	}
	arg := uploadArg{
		Path:       r.Path,
		Mode:       mode,
		Autorename: r.Autorename,
		Mute:       r.Mute,
	}
	if r.ClientModified != nil {
		arg.ClientModified = r.ClientModified.UTC().Format(timeFormat)
	}
	data, err := json.Marshal(arg)
	if err != nil {
		return "", fmt.Errorf("encoding upload arg: %w", err)
	}
	return string(data), nil
}

// UploadResponse is the file metadata Dropbox returns from files/upload.
// Sizes are uint64 end to end; Dropbox file sizes can exceed what a float
// mantissa holds.
type UploadResponse struct {
	Name           string    `json:"name"`
	ID             string    `json:"id"`
	ClientModified time.Time `json:"client_modified"`
	ServerModified time.Time `json:"server_modified"`
	Rev            string    `json:"rev"`
	Size           uint64    `json:"size"`

	PathLower                *string          `json:"path_lower,omitempty"`
	PathDisplay              *string          `json:"path_display,omitempty"`
	ParentSharedFolderID     *string          `json:"parent_shared_folder_id,omitempty"`
	MediaInfo                *MediaInfo       `json:"media_info,omitempty"`
	SharingInfo              *FileSharingInfo `json:"sharing_info,omitempty"`
	PropertyGroups           []PropertyGroup  `json:"property_groups,omitempty"`
	HasExplicitSharedMembers *bool            `json:"has_explicit_shared_members,omitempty"`
	ContentHash              *string          `json:"content_hash,omitempty"`
}

// UnmarshalJSON decodes upload metadata, rejecting payloads that omit any of
// the always-present fields. Optional fields stay nil when absent.
func (r *UploadResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name                     *string          `json:"name"`
		ID                       *string          `json:"id"`
		ClientModified           *time.Time       `json:"client_modified"`
		ServerModified           *time.Time       `json:"server_modified"`
		Rev                      *string          `json:"rev"`
		Size                     *uint64          `json:"size"`
		PathLower                *string          `json:"path_lower"`
		PathDisplay              *string          `json:"path_display"`
		ParentSharedFolderID     *string          `json:"parent_shared_folder_id"`
		MediaInfo                *MediaInfo       `json:"media_info"`
		SharingInfo              *FileSharingInfo `json:"sharing_info"`
		PropertyGroups           []PropertyGroup  `json:"property_groups"`
		HasExplicitSharedMembers *bool            `json:"has_explicit_shared_members"`
		ContentHash              *string          `json:"content_hash"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Name == nil:
		return errMissingField("name")
	case raw.ID == nil:
		return errMissingField("id")
	case raw.ClientModified == nil:
		return errMissingField("client_modified")
	case raw.ServerModified == nil:
		return errMissingField("server_modified")
	case raw.Rev == nil:
		return errMissingField("rev")
	case raw.Size == nil:
		return errMissingField("size")
	}

	r.Name = *raw.Name
	r.ID = *raw.ID
	r.ClientModified = *raw.ClientModified
	r.ServerModified = *raw.ServerModified
	r.Rev = *raw.Rev
	r.Size = *raw.Size
	r.PathLower = raw.PathLower
	r.PathDisplay = raw.PathDisplay
	r.ParentSharedFolderID = raw.ParentSharedFolderID
	r.MediaInfo = raw.MediaInfo
	r.SharingInfo = raw.SharingInfo
	r.PropertyGroups = raw.PropertyGroups
	r.HasExplicitSharedMembers = raw.HasExplicitSharedMembers
	r.ContentHash = raw.ContentHash
	return nil
}

func errMissingField(name string) error {
	return fmt.Errorf("upload response missing required field %q", name)
}

// MediaInfo is Dropbox's media_info union: either still pending server-side
// analysis, or resolved metadata.
type MediaInfo struct {
	Tag      string         `json:".tag"`
	Metadata *MediaMetadata `json:"metadata,omitempty"`
}

// Pending reports whether media analysis has not finished yet.
func (m MediaInfo) Pending() bool {
	return m.Tag == "pending"
}

func (m *MediaInfo) UnmarshalJSON(data []byte) error {
	type plain MediaInfo
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Tag {
	case "pending":
	case "metadata":
		if raw.Metadata == nil {
			return errors.New("media_info tagged metadata but metadata payload missing")
		}
	default:
		return fmt.Errorf("unknown media_info tag %q", raw.Tag)
	}
	*m = MediaInfo(raw)
	return nil
}

// MediaMetadata is the photo-or-video union inside MediaInfo. Exactly one of
// Photo and Video is set.
type MediaMetadata struct {
	Photo *PhotoMetadata
	Video *VideoMetadata
}

func (m *MediaMetadata) UnmarshalJSON(data []byte) error {
	var probe struct {
		Tag string `json:".tag"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	switch probe.Tag {
	case "photo":
		var photo PhotoMetadata
		if err := json.Unmarshal(data, &photo); err != nil {
			return err
		}
		m.Photo = &photo
		m.Video = nil
	case "video":
		var video VideoMetadata
		if err := json.Unmarshal(data, &video); err != nil {
			return err
		}
		m.Video = &video
		m.Photo = nil
	default:
		return fmt.Errorf("unknown media metadata tag %q", probe.Tag)
	}
	return nil
}

func (m MediaMetadata) MarshalJSON() ([]byte, error) {
	switch {
	case m.Photo != nil:
		type tagged struct {
			Tag string `json:".tag"`
			*PhotoMetadata
		}
		return json.Marshal(tagged{Tag: "photo", PhotoMetadata: m.Photo})
	case m.Video != nil:
		type tagged struct {
			Tag string `json:".tag"`
			*VideoMetadata
		}
		return json.Marshal(tagged{Tag: "video", VideoMetadata: m.Video})
	}
	return nil, errors.New("media metadata has neither photo nor video set")
}

// PhotoMetadata holds what Dropbox extracted from a photo. Every field is
// optional; Dropbox omits what it could not determine.
type PhotoMetadata struct {
	Dimensions *Dimensions     `json:"dimensions,omitempty"`
	Location   *GPSCoordinates `json:"location,omitempty"`
	TimeTaken  *time.Time      `json:"time_taken,omitempty"`
}

// VideoMetadata is PhotoMetadata plus the duration in milliseconds.
type VideoMetadata struct {
	Dimensions *Dimensions     `json:"dimensions,omitempty"`
	Location   *GPSCoordinates `json:"location,omitempty"`
	TimeTaken  *time.Time      `json:"time_taken,omitempty"`
	Duration   *uint64         `json:"duration,omitempty"`
}

// Dimensions are pixel dimensions of a photo or video.
type Dimensions struct {
	Height uint64 `json:"height"`
	Width  uint64 `json:"width"`
}

// GPSCoordinates is the location a photo or video was captured at.
type GPSCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FileSharingInfo describes how a file inside a shared folder is shared.
type FileSharingInfo struct {
	ReadOnly             bool    `json:"read_only"`
	ParentSharedFolderID string  `json:"parent_shared_folder_id"`
	ModifiedBy           *string `json:"modified_by,omitempty"`
}

// PropertyGroup is a set of custom properties attached to a file under a
// property template.
type PropertyGroup struct {
	TemplateID string          `json:"template_id"`
	Fields     []PropertyField `json:"fields"`
}

// PropertyField is a single name/value pair inside a PropertyGroup.
type PropertyField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
