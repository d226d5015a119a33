package addon

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

// wireResourceResponse is the shape an addon actually serves: one object
// whose populated fields depend on which resource was requested. Decoding
// is driven by the request's resource name rather than a JSON-level tag,
// matching how the addon protocol itself works.
type wireResourceResponse struct {
	Metas         []MetaPreview `json:"metas"`
	Skip          *int          `json:"skip"`
	HasMore       *bool         `json:"hasMore"`
	MetasDetailed []Meta        `json:"metasDetailed"`
	Meta          *Meta         `json:"meta"`
	Streams       []catalogtypes.Stream `json:"streams"`
	Subtitles     []Subtitle    `json:"subtitles"`
	Addons        []catalogtypes.Descriptor `json:"addons"`
	Videos        []MetaVideo   `json:"videos"`
}

// decodeResourceResponse unmarshals body into the variant selected by
// resourceName, and returns an error for a resource name it does not
// recognize. A body shape that decodes to nothing for that resource is
// not judged here but by the caller's UnexpectedResp/EmptyContent
// handling in pkg/loadable — the transport itself never judges emptiness.
func decodeResourceResponse(resourceName string, body []byte) (ResourceResponse, error) {
	var w wireResourceResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return ResourceResponse{}, fmt.Errorf("addon: decode resource response: %w", err)
	}

	switch resourceName {
	case "catalog":
		if w.MetasDetailed != nil {
			return ResourceResponse{Kind: RespMetasDetailed, MetasDetailed: w.MetasDetailed, Skip: w.Skip, HasMore: w.HasMore}, nil
		}
		return ResourceResponse{Kind: RespMetas, Metas: w.Metas, Skip: w.Skip, HasMore: w.HasMore}, nil
	case "meta":
		return ResourceResponse{Kind: RespMeta, Meta: w.Meta}, nil
	case "stream":
		return ResourceResponse{Kind: RespStreams, Streams: w.Streams}, nil
	case "subtitles":
		return ResourceResponse{Kind: RespSubtitles, Subtitles: w.Subtitles}, nil
	case "addon_catalog":
		return ResourceResponse{Kind: RespAddons, Addons: w.Addons}, nil
	case "lastVideos":
		return ResourceResponse{Kind: RespVideos, Videos: w.Videos}, nil
	default:
		return ResourceResponse{}, fmt.Errorf("addon: unknown resource name %q", resourceName)
	}
}
