package files

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemS3() *memS3 {
	return &memS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memS3) PutFile(_ context.Context, p string, data []byte, ct string) (string, error) {
	m.objects[p] = data
	m.types[p] = ct
	return "s3://formations/" + p, nil
}

func (m *memS3) GetFile(_ context.Context, ref string) ([]byte, error) {
	data, ok := m.objects[strings.TrimPrefix(ref, "s3://formations/")]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (m *memS3) DeleteFile(_ context.Context, ref string) error {
	delete(m.objects, strings.TrimPrefix(ref, "s3://formations/"))
	return nil
}

type downloadOnlyTG struct {
	domainClient
}

// domainClient реализует остальные методы клиента пустышками
type domainClient struct{}

func (domainClient) SendMessage(context.Context, int64, string) error { return nil }
func (domainClient) SendMessageWithKeyboard(context.Context, int64, string, domain.Keyboard) (int64, error) {
	return 0, nil
}
func (domainClient) EditMessageText(context.Context, int64, int64, string, domain.Keyboard) error {
	return nil
}
func (domainClient) AnswerCallbackQuery(context.Context, string, string, bool) error { return nil }
func (domainClient) SendDocument(context.Context, int64, domain.OutgoingFile) error  { return nil }
func (domainClient) SendPhoto(context.Context, int64, *int64, []byte, string) (string, error) {
	return "", nil
}
func (domainClient) DownloadFile(context.Context, string) ([]byte, string, error) {
	return nil, "", nil
}

func (downloadOnlyTG) DownloadFile(_ context.Context, fileID string) ([]byte, string, error) {
	return []byte("course:" + fileID), "documents/file_1.pdf", nil
}

func TestStoreWithoutS3KeepsTelegramReference(t *testing.T) {
	s := NewStore(nil, downloadOnlyTG{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ref, err := s.Save(context.Background(), "BQACAgI", "products", "course.pdf")
	require.NoError(t, err)
	assert.Equal(t, "tg:BQACAgI", ref)

	f, err := s.Open(context.Background(), ref, "course.pdf", "enjoy")
	require.NoError(t, err)
	assert.Equal(t, "BQACAgI", f.FileID)
	assert.Nil(t, f.Data)
}

func TestStoreWithS3UploadsAndFetches(t *testing.T) {
	mem := newMemS3()
	s := NewStore(mem, downloadOnlyTG{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ref, err := s.Save(context.Background(), "BQACAgI", "products/TBF-1", "Course.PDF")
	require.NoError(t, err)
	assert.Regexp(t, `^s3://formations/products/TBF-1/[0-9a-f-]+\.pdf$`, ref)
	assert.Equal(t, "application/pdf", mem.types[strings.TrimPrefix(ref, "s3://formations/")])

	f, err := s.Open(context.Background(), ref, "Course.PDF", "")
	require.NoError(t, err)
	assert.Equal(t, []byte("course:BQACAgI"), f.Data)

	require.NoError(t, s.Delete(context.Background(), ref))
	assert.Empty(t, mem.objects)

	_, err = s.Open(context.Background(), "ftp://x", "", "")
	assert.Error(t, err)
}
