package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	sgerrors "github.com/mmichie/slidegen/pkg/errors"
	"github.com/mmichie/slidegen/pkg/httputil"
)

const noImageData = "No image data in response"

// malformedError reports a response that parsed but lacked what we needed
type malformedError struct {
	detail string
}

func malformed(format string, args ...interface{}) error {
	return &malformedError{detail: fmt.Sprintf(format, args...)}
}

func (e *malformedError) Error() string {
	return "malformed response: " + e.detail
}

func (e *malformedError) Unwrap() error {
	return sgerrors.ErrMalformedResponse
}

// boundary converts everything a backend call can do wrong (errors, panics,
// deadlines) into a failed AIResponse. Every backend routes its generation
// calls through one.
type boundary struct {
	provider string
	// display is the human name used in connection messages, e.g. "Ollama"
	display string
	// local backends get the "Is it running?" connection hint
	local bool

	timeout      time.Duration
	imageTimeout time.Duration
	logger       logrus.FieldLogger
}

func newBoundary(provider, display string, local bool, timeout, imageTimeout time.Duration) boundary {
	return boundary{
		provider:     provider,
		display:      display,
		local:        local,
		timeout:      timeout,
		imageTimeout: imageTimeout,
		logger:       logrus.WithField("provider", provider),
	}
}

type stage int

const (
	promptStage stage = iota
	imageStage
)

func (b boundary) prompt(ctx context.Context, call func(ctx context.Context) (AIResponse, error)) AIResponse {
	return b.run(ctx, promptStage, b.timeout, call)
}

func (b boundary) image(ctx context.Context, call func(ctx context.Context) (AIResponse, error)) AIResponse {
	return b.run(ctx, imageStage, b.imageTimeout, call)
}

func (b boundary) run(ctx context.Context, s stage, timeout time.Duration, call func(ctx context.Context) (AIResponse, error)) (resp AIResponse) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			resp = Failure(b.classify(s, fmt.Errorf("panic: %v", r)))
			b.logger.WithField("panic", r).Error("recovered panic in provider call")
		}
	}()

	resp, err := call(ctx)
	if err != nil {
		message := b.classify(s, err)
		b.logger.WithError(err).Debug(message)
		return Failure(message)
	}

	return resp.WithMetadata("provider", b.provider)
}

// classify maps an error onto the timeout / connection / API status / parse
// message classes
func (b boundary) classify(s stage, err error) string {
	if isTimeout(err) {
		if s == imageStage {
			return "Image generation timed out"
		}
		return "Request timed out"
	}

	if errors.Is(err, sgerrors.ErrUnsupported) {
		if s == imageStage {
			return b.display + " provider doesn't support image generation. Use a different provider for images."
		}
		return b.display + " provider doesn't support prompt generation."
	}

	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("API error %d: %s", apiErr.Code, apiErr.Message)
	}

	var malformedErr *malformedError
	if errors.As(err, &malformedErr) {
		if s == imageStage && malformedErr.detail == noImageData {
			return noImageData
		}
		return "Malformed response: " + malformedErr.detail
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return "Malformed response: " + err.Error()
	}

	if isConnectionError(err) {
		if b.local {
			return fmt.Sprintf("Could not connect to %s. Is it running?", b.display)
		}
		return "Connection error: " + err.Error()
	}

	if s == imageStage {
		return "Error generating image: " + err.Error()
	}
	return "Error generating prompt: " + err.Error()
}

// unsupportedImage is the fixed failure prompt-only backends return without
// contacting their server
func (b boundary) unsupportedImage() AIResponse {
	return Failure(b.classify(imageStage, sgerrors.New(b.provider, "generate_image", sgerrors.ErrUnsupported)))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
