package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akmalqodirov005/e-commerse/internal/storage"
)

type fakeUploader struct {
	folder, name string
	data         []byte
}

func (f *fakeUploader) Upload(_ context.Context, folder, filename string, r io.Reader, size int64, ct string) (storage.Object, error) {
	f.folder, f.name = folder, filename
	f.data, _ = io.ReadAll(r)
	return storage.Object{Key: folder + "/1-" + filename, Size: size, ContentType: ct, URL: "http://minio/" + filename}, nil
}

func multipartBody(t *testing.T, folder string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if folder != "" {
		require.NoError(t, mw.WriteField("folder", folder))
	}
	if content != nil {
		fw, err := mw.CreateFormFile("file", "shirt.png")
		require.NoError(t, err)
		_, _ = fw.Write(content)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, folder string, content []byte) *httptest.ResponseRecorder {
	body, ct := multipartBody(t, folder, content)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestUpload_StoresFile(t *testing.T) {
	up := &fakeUploader{}
	e := newTestEnv(t, up)
	e.login(t)

	w := e.upload(t, "products", []byte("png-bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, "http://minio/shirt.png", decode(t, w)["url"])
	require.Equal(t, "products", up.folder)
	require.Equal(t, "png-bytes", string(up.data))

	// unknown folders fall back to the default one
	e.upload(t, "../etc", []byte("x"))
	require.Equal(t, "uploads", up.folder)
}

func TestUpload_MissingFile(t *testing.T) {
	e := newTestEnv(t, &fakeUploader{})
	e.login(t)
	require.Equal(t, http.StatusBadRequest, e.upload(t, "products", nil).Code)
}

func TestUpload_NotConfigured(t *testing.T) {
	e := newTestEnv(t, nil)
	e.login(t)
	require.Equal(t, http.StatusServiceUnavailable, e.upload(t, "products", []byte("x")).Code)
}

func TestUpload_RequiresSession(t *testing.T) {
	e := newTestEnv(t, &fakeUploader{})
	require.Equal(t, http.StatusUnauthorized, e.upload(t, "products", []byte("x")).Code)
}
