package innertube

import (
	"encoding/json"
	"net/url"
)

// PlayerRequest is the body POSTed to the /player endpoint.
type PlayerRequest struct {
	Context        Context `json:"context"`
	VideoID        string  `json:"videoId"`
	ContentCheckOk bool    `json:"contentCheckOk,omitempty"`
	RacyCheckOk    bool    `json:"racyCheckOk,omitempty"`
}

type Context struct {
	Client ClientInfo `json:"client"`
}

type ClientInfo struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	UserAgent         string `json:"userAgent,omitempty"`
	DeviceMake        string `json:"deviceMake,omitempty"`
	DeviceModel       string `json:"deviceModel,omitempty"`
	OsName            string `json:"osName,omitempty"`
	OsVersion         string `json:"osVersion,omitempty"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	AcceptLanguage    string `json:"hl"`
	AcceptRegion      string `json:"gl"`
	UtcOffsetMinutes  int    `json:"utcOffsetMinutes"`
}

// NewPlayerRequest shapes the request body for one identity.
func NewPlayerRequest(id Identity, videoID string) *PlayerRequest {
	return &PlayerRequest{
		VideoID:        videoID,
		ContentCheckOk: true,
		RacyCheckOk:    true,
		Context: Context{
			Client: ClientInfo{
				ClientName:        id.ClientName,
				ClientVersion:     id.Version,
				UserAgent:         id.UserAgent,
				DeviceMake:        id.DeviceMake,
				DeviceModel:       id.DeviceModel,
				OsName:            id.OSName,
				OsVersion:         id.OSVersion,
				AndroidSdkVersion: id.AndroidSDKVersion,
				AcceptLanguage:    "en",
				AcceptRegion:      "US",
			},
		},
	}
}

// MarshalRequest encodes the request body as JSON.
func MarshalRequest(r *PlayerRequest) ([]byte, error) {
	return json.Marshal(r)
}

// PlayerEndpoint builds the /player URL for one identity.
func PlayerEndpoint(id Identity) string {
	endpoint := "https://www.youtube.com/youtubei/v1/player"
	if id.APIKey != "" {
		endpoint += "?key=" + url.QueryEscape(id.APIKey)
	}
	return endpoint
}
