package middleware

import (
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "application/json; charset=UTF-8")
	header.Set("X-Custom", "value")
	body := []byte(`[{"id":1,"state":"pending"}]`)

	bs, err := encodePayload(http.StatusOK, header, body)
	require.NoError(t, err)

	status, gotHeader, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, header, gotHeader)
	assert.Equal(t, body, gotBody)
}

func TestPayloadRoundTripEmpty(t *testing.T) {
	bs, err := encodePayload(http.StatusNoContent, http.Header{}, nil)
	require.NoError(t, err)

	status, header, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, header)
	assert.Empty(t, body)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	// Shorter than the fixed status+length prefix.
	for _, bs := range [][]byte{nil, {}, {1, 2, 3}, make([]byte, 7)} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok, "payload of %d bytes must be rejected", len(bs))
	}

	// Header length pointing past the end of the payload.
	overrun := make([]byte, 8)
	binary.BigEndian.PutUint32(overrun[0:4], http.StatusOK)
	binary.BigEndian.PutUint32(overrun[4:8], 100)
	_, _, _, ok := decodePayload(overrun)
	assert.False(t, ok)

	// Header bytes that are not valid JSON.
	corrupt := make([]byte, 8+4)
	binary.BigEndian.PutUint32(corrupt[0:4], http.StatusOK)
	binary.BigEndian.PutUint32(corrupt[4:8], 4)
	copy(corrupt[8:], "not{")
	_, _, _, ok = decodePayload(corrupt)
	assert.False(t, ok)
}

func TestCaptureWriterLimit(t *testing.T) {
	newWriter := func(limit int64) (*captureWriter, *httptest.ResponseRecorder) {
		rec := httptest.NewRecorder()
		return &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: limit}, rec
	}

	// A body of exactly the limit is buffered in full and stays cacheable.
	cw, rec := newWriter(8)
	n, err := cw.Write([]byte("12345678"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []byte("12345678"), cw.buf.Bytes())
	assert.True(t, cw.size <= cw.limit)
	assert.Equal(t, "12345678", rec.Body.String())

	// One byte over: the client still gets everything, but the size
	// bookkeeping marks the response as too large to cache.
	cw, rec = newWriter(8)
	_, err = cw.Write([]byte("123456789"))
	require.NoError(t, err)
	assert.False(t, cw.size <= cw.limit)
	assert.Equal(t, "123456789", rec.Body.String())

	// The buffer never grows past the limit, even across writes.
	cw, rec = newWriter(8)
	_, err = cw.Write([]byte("12345"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("67890"))
	require.NoError(t, err)
	assert.Equal(t, []byte("12345678"), cw.buf.Bytes())
	assert.Equal(t, int64(10), cw.size)
	assert.Equal(t, "1234567890", rec.Body.String())
}

func TestCaptureWriterStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 64}
	cw.WriteHeader(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, cw.status)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func cacheContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(req.URL.Path)
	return c
}

func TestCacheKeyIsStablePerRouteAndQuery(t *testing.T) {
	a := cacheContext(t, "/api/explanations?page=1")
	b := cacheContext(t, "/api/explanations?page=1")
	assert.Equal(t, cacheKey("cache", a), cacheKey("cache", b))

	other := cacheContext(t, "/api/explanations?page=2")
	assert.NotEqual(t, cacheKey("cache", a), cacheKey("cache", other))
}
