package scorm

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v4"
)

// HTTPFlusher posts bridge state to the progress endpoint of a (possibly
// remote) API instance. Used when the player service does not share a
// process with the reconciler; the in-process deployment wires the
// reconciler directly instead. Both instances share the JWT secret, so the
// flusher mints a short-lived token for the session's user and the remote
// end attributes the write through its normal auth middleware.
type HTTPFlusher struct {
	client  *resty.Client
	baseURL string
	secret  []byte
}

func NewHTTPFlusher(baseURL, jwtSecret string) *HTTPFlusher {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &HTTPFlusher{
		client:  client,
		baseURL: baseURL,
		secret:  []byte(jwtSecret),
	}
}

// Flush delivers one state snapshot. Like every flusher it is at-most-once:
// the caller logs and drops the error.
func (f *HTTPFlusher) Flush(payload FlushPayload) error {
	token, err := f.mintToken(payload.UserID)
	if err != nil {
		return fmt.Errorf("mint flush token: %w", err)
	}

	resp, err := f.client.R().
		SetAuthToken(token).
		SetBody(map[string]interface{}{
			"courseId":        payload.CourseID,
			"progress":        payload.Progress,
			"scormData":       payload.ScormData,
			"completed":       payload.Completed,
			"currentLocation": payload.CurrentLocation,
			"suspendData":     payload.SuspendData,
		}).
		Post(f.baseURL + "/api/scorm/progress")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("progress endpoint returned %s", resp.Status())
	}
	return nil
}

// mintToken issues a short-lived token for the user whose state is being
// flushed. One token per flush; they are never stored.
func (f *HTTPFlusher) mintToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(5 * time.Minute).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
}
