package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// maxDownloadBytes лимит getFile у облачного Bot API
const maxDownloadBytes = 20 << 20

// messageWithMedia результат sendPhoto/sendDocument
type messageWithMedia struct {
	MessageID int64              `json:"message_id"`
	Photo     []domain.PhotoSize `json:"photo,omitempty"`
	Document  *domain.Document   `json:"document,omitempty"`
}

// SendPhoto отправляет фото в чат и возвращает file_id самого большого размера
func (c *Client) SendPhoto(ctx context.Context, chatID int64, messageThreadID *int64, photoData []byte, filename string) (string, error) {
	fields := map[string]string{"chat_id": strconv.FormatInt(chatID, 10)}
	if messageThreadID != nil {
		fields["message_thread_id"] = strconv.FormatInt(*messageThreadID, 10)
	}

	var result messageWithMedia
	if err := c.callMultipart(ctx, "sendPhoto", fields, "photo", filename, photoData, &result); err != nil {
		return "", err
	}

	if len(result.Photo) == 0 {
		return "", fmt.Errorf("no photo sizes in response")
	}

	// последний элемент самый большой
	fileID := result.Photo[len(result.Photo)-1].FileID
	c.log.Debug("photo sent successfully",
		"chat_id", chatID,
		"message_id", result.MessageID,
		"filename", filename)
	return fileID, nil
}

// SendDocument отправляет файл товара покупателю
func (c *Client) SendDocument(ctx context.Context, chatID int64, file domain.OutgoingFile) error {
	if file.FileID != "" {
		req := map[string]interface{}{
			"chat_id":    chatID,
			"document":   file.FileID,
			"caption":    file.Caption,
			"parse_mode": defaultParseMode,
		}
		if err := c.callJSON(ctx, "sendDocument", req, nil); err != nil {
			return err
		}
		c.log.Debug("document sent by file_id", "chat_id", chatID)
		return nil
	}

	fields := map[string]string{
		"chat_id":    strconv.FormatInt(chatID, 10),
		"caption":    file.Caption,
		"parse_mode": defaultParseMode,
	}
	var result messageWithMedia
	if err := c.callMultipart(ctx, "sendDocument", fields, "document", file.Name, file.Data, &result); err != nil {
		return err
	}
	c.log.Debug("document uploaded",
		"chat_id", chatID,
		"message_id", result.MessageID,
		"filename", file.Name,
		"size", len(file.Data))
	return nil
}

type fileInfo struct {
	FileID   string `json:"file_id"`
	FileSize int64  `json:"file_size"`
	FilePath string `json:"file_path"`
}

// DownloadFile скачивает файл, присланный пользователем. Возвращает содержимое и путь файла.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, string, error) {
	var info fileInfo
	if err := c.callJSON(ctx, "getFile", map[string]string{"file_id": fileID}, &info); err != nil {
		return nil, "", err
	}
	if info.FilePath == "" {
		return nil, "", fmt.Errorf("getFile returned empty file_path")
	}

	url := fmt.Sprintf("%s/file/bot%s/%s", c.apiURL, c.token, info.FilePath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download file failed with status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, "", fmt.Errorf("file exceeds %d bytes", maxDownloadBytes)
	}
	c.log.Debug("file downloaded", "file_path", info.FilePath, "size", len(data))
	return data, info.FilePath, nil
}

func (c *Client) callMultipart(ctx context.Context, method string, fields map[string]string, fileField, filename string, data []byte, out interface{}) error {
	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := writer.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write %s field: %w", k, err)
		}
	}

	part, err := writer.CreateFormFile(fileField, filename)
	if err != nil {
		return fmt.Errorf("failed to create %s form file: %w", fileField, err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write %s data: %w", fileField, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, &requestBody)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(httpReq, method, out)
}
