package nowpayments

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/admin/tg-bots/market-bot/internal/domain"
	paymentPort "github.com/admin/tg-bots/market-bot/internal/ports/payment"
)

var ErrMalformedIPN = errors.New("malformed ipn body")

// Sign hex HMAC-SHA512 от payload
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature сверяет подпись с сырым телом, затем с телом с отсортированными ключами.
// NOWPayments подписывает JSON с ключами по алфавиту, поэтому второй вариант нужен
// когда тело пришло в другом порядке.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected, err := hex.DecodeString(strings.TrimSpace(strings.ToLower(signature)))
	if err != nil {
		return false
	}
	if checkMAC(secret, body, expected) {
		return true
	}
	sorted, err := SortedJSON(body)
	if err != nil {
		return false
	}
	return checkMAC(secret, sorted, expected)
}

func checkMAC(secret string, payload, expected []byte) bool {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}

// SortedJSON перекодирует тело с ключами по алфавиту, без пробелов и без HTML-экранирования
func SortedJSON(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ParseIPN разбирает тело уведомления, payment_id и payment_status обязательны
func ParseIPN(body []byte) (*paymentPort.IPNNotification, error) {
	var resp paymentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIPN, err)
	}
	if resp.PaymentID == "" || resp.PaymentStatus == "" {
		return nil, fmt.Errorf("%w: payment_id and payment_status are required", ErrMalformedIPN)
	}
	return &paymentPort.IPNNotification{
		PaymentID:     string(resp.PaymentID),
		Status:        domain.GatewayStatus(resp.PaymentStatus),
		OrderID:       resp.OrderID,
		PayAmount:     resp.PayAmount,
		ActuallyPaid:  resp.ActuallyPaid,
		PayCurrency:   resp.PayCurrency,
		PriceAmount:   resp.PriceAmount,
		PriceCurrency: resp.PriceCurrency,
	}, nil
}
