package extract

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notexhq/notex-backend/internal/apperr"
)

// videoIDPattern isolates the 11-character video id from the URL shapes
// YouTube serves: watch?v=, embed/, v/, short youtu.be links and the
// youtube-nocookie domain.
var videoIDPattern = regexp.MustCompile(
	`(?:https?://)?(?:www\.)?(?:youtube|youtu|youtube-nocookie)\.(?:com|be)/(?:watch\?v=|embed/|v/|.+\?v=)?([^&=%?]{11})`)

// ExtractVideoID returns the video id embedded in url.
func ExtractVideoID(url string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", apperr.New(apperr.InvalidReference, "Invalid YouTube URL")
	}
	return m[1], nil
}

const defaultWatchURL = "https://www.youtube.com/watch?v="

// TranscriptClient fetches video transcripts. The watch page lists the
// available caption tracks; the first track's timedtext endpoint returns the
// caption fragments as XML.
type TranscriptClient struct {
	httpClient *http.Client
	watchURL   string
	logger     *zap.Logger
}

func NewTranscriptClient(logger *zap.Logger) *TranscriptClient {
	return &TranscriptClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		watchURL:   defaultWatchURL,
		logger:     logger,
	}
}

// Transcript fetches and joins all caption fragments for the video referenced
// by url, in fragment order with single-space separators.
func (c *TranscriptClient) Transcript(ctx context.Context, url string) (string, error) {
	videoID, err := ExtractVideoID(url)
	if err != nil {
		return "", err
	}

	c.logger.Info("fetching transcript", zap.String("video_id", videoID))

	page, err := c.get(ctx, c.watchURL+videoID)
	if err != nil {
		return "", apperr.Wrap(apperr.ExtractionError, "Transcript error", err)
	}

	trackURL, err := captionTrackURL(page)
	if err != nil {
		return "", apperr.Wrap(apperr.ExtractionError, "Transcript error", err)
	}

	body, err := c.get(ctx, trackURL)
	if err != nil {
		return "", apperr.Wrap(apperr.ExtractionError, "Transcript error", err)
	}

	transcript, err := parseTimedText(body)
	if err != nil {
		return "", apperr.Wrap(apperr.ExtractionError, "Transcript error", err)
	}

	c.logger.Info("transcript fetched", zap.String("video_id", videoID), zap.Int("length", len(transcript)))
	return transcript, nil
}

func (c *TranscriptClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

var baseURLPattern = regexp.MustCompile(`"captionTracks":\[\{"baseUrl":"((?:[^"\\]|\\.)*)"`)

// captionTrackURL digs the first caption track's timedtext URL out of the
// watch page. Private videos and videos without captions have no track list.
func captionTrackURL(page []byte) (string, error) {
	m := baseURLPattern.FindSubmatch(page)
	if m == nil {
		return "", fmt.Errorf("no caption tracks found")
	}
	// The URL is embedded in a JSON string, so & and friends need decoding.
	var url string
	if err := json.Unmarshal([]byte(`"`+string(m[1])+`"`), &url); err != nil {
		return "", fmt.Errorf("decoding caption track url: %w", err)
	}
	return url, nil
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func parseTimedText(body []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parsing timedtext: %w", err)
	}
	if len(tt.Texts) == 0 {
		return "", fmt.Errorf("transcript is empty")
	}
	fragments := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		fragments = append(fragments, html.UnescapeString(t.Value))
	}
	return strings.Join(fragments, " "), nil
}
