package browser

import (
	"errors"
	"testing"
	"time"

	"github.com/jonathan/ecms-scraper/internal/sources"
	"github.com/stretchr/testify/assert"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, sources.DefaultBaseURL, opts.BaseURL)
	assert.True(t, opts.Headless)
	assert.Equal(t, 1920, opts.WindowWidth)
	assert.Equal(t, 1080, opts.WindowHeight)
	assert.Equal(t, 10*time.Second, opts.LinkTimeout)
	assert.Equal(t, 10*time.Second, opts.DialogTimeout)
	assert.Equal(t, 10*time.Second, opts.RowTimeout)
}

func TestWithDefaults_FillsZeroValues(t *testing.T) {
	opts := (&Options{BaseURL: "http://localhost/ECMS/", RowTimeout: time.Second}).withDefaults()

	assert.Equal(t, "http://localhost/ECMS/", opts.BaseURL)
	assert.Equal(t, time.Second, opts.RowTimeout)
	assert.Equal(t, DefaultLinkTimeout, opts.LinkTimeout)
	assert.Equal(t, DefaultPopupPause, opts.PopupPause)
	assert.Equal(t, 1920, opts.WindowWidth)
}

func TestWithDefaults_Nil(t *testing.T) {
	var opts *Options
	assert.Equal(t, DefaultOptions(), opts.withDefaults())
}

func TestScripts_EmbedSelectors(t *testing.T) {
	assert.Contains(t, dismissPopupScript(TimeoutContinueName), `getElementsByName("timeoutContinue")`)
	assert.Contains(t, nextPageScript(NextPageAlt), `img[alt=\"Go to next page\"]`)
}

func TestBootstrapError(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := &BootstrapError{URL: "https://example.com", Message: "guest link not clickable", Cause: cause}

	assert.Contains(t, err.Error(), "bootstrap error for https://example.com")
	assert.Contains(t, err.Error(), "guest link not clickable")
	assert.ErrorIs(t, err, cause)

	var target *BootstrapError
	assert.True(t, errors.As(error(err), &target))
}

func TestError_WithoutCause(t *testing.T) {
	err := &Error{URL: "https://example.com/detail", Message: "navigation failed"}
	assert.Equal(t, "browser error for https://example.com/detail: navigation failed", err.Error())
	assert.Nil(t, err.Unwrap())
}
