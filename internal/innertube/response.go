package innertube

// PlayerResponse is the decoded payload of one /player attempt. It is
// ephemeral: the catalog builder consumes it and it is discarded.
type PlayerResponse struct {
	PlayabilityStatus PlayabilityStatus `json:"playabilityStatus"`
	StreamingData     StreamingData     `json:"streamingData"`
	VideoDetails      VideoDetails      `json:"videoDetails"`
}

type PlayabilityStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (p *PlayabilityStatus) IsOK() bool {
	return p.Status == "OK"
}

type StreamingData struct {
	ExpiresInSeconds string   `json:"expiresInSeconds"`
	Formats          []Format `json:"formats"`
	AdaptiveFormats  []Format `json:"adaptiveFormats"`
}

type Format struct {
	Itag            int    `json:"itag"`
	URL             string `json:"url"`
	MimeType        string `json:"mimeType"`
	Bitrate         int    `json:"bitrate"`
	AverageBitrate  int    `json:"averageBitrate"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	ContentLength   string `json:"contentLength"`
	Quality         string `json:"quality"`
	QualityLabel    string `json:"qualityLabel"`
	AudioQuality    string `json:"audioQuality"`
	SignatureCipher string `json:"signatureCipher"`
	Cipher          string `json:"cipher"` // legacy field name
}

type VideoDetails struct {
	VideoID          string           `json:"videoId"`
	Title            string           `json:"title"`
	LengthSeconds    string           `json:"lengthSeconds"`
	ChannelID        string           `json:"channelId"`
	ShortDescription string           `json:"shortDescription"`
	Thumbnail        ThumbnailDetails `json:"thumbnail"`
	ViewCount        string           `json:"viewCount"`
	Author           string           `json:"author"`
}

type ThumbnailDetails struct {
	Thumbnails []Thumbnail `json:"thumbnails"`
}

type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
