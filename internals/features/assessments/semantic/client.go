// file: internals/features/assessments/semantic/client.go
package semantic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/configs"
	"trainingku_backend/internals/features/assessments/grading"
)

var (
	ErrBadStatus   = errors.New("semantic compare: status bukan 2xx")
	ErrBadResponse = errors.New("semantic compare: respons tidak valid")
)

type compareRequest struct {
	Submitted string `json:"submitted"`
	Ideal     string `json:"ideal"`
}

type compareResponse struct {
	IsCorrect *bool  `json:"is_correct"`
	Reason    string `json:"reason"`
}

// Client memanggil layanan pembanding semantik eksternal via HTTP.
type Client struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// NewComparer: nil kalau URL belum diset, grading lalu menandai soal open sebagai salah.
func NewComparer(cfg configs.AppConfig) grading.Comparer {
	if strings.TrimSpace(cfg.SemanticCompareURL) == "" {
		return nil
	}
	return &Client{
		URL:     cfg.SemanticCompareURL,
		Token:   cfg.SemanticCompareToken,
		Timeout: cfg.SemanticCompareTimeout,
	}
}

func (c *Client) CompareAnswers(ctx context.Context, submitted, ideal string) (grading.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return grading.Verdict{}, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}

	body, err := sonic.Marshal(compareRequest{Submitted: submitted, Ideal: ideal})
	if err != nil {
		return grading.Verdict{}, err
	}

	a := fiber.Post(c.URL)
	a.Timeout(timeout)
	a.ContentType(fiber.MIMEApplicationJSON)
	if c.Token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.Token)
	}
	a.Body(body)

	code, resp, errs := a.Bytes()
	if len(errs) > 0 {
		return grading.Verdict{}, fmt.Errorf("semantic compare: %w", errs[0])
	}
	if code < 200 || code > 299 {
		return grading.Verdict{}, fmt.Errorf("%w (%d)", ErrBadStatus, code)
	}

	var out compareResponse
	if err := sonic.Unmarshal(resp, &out); err != nil {
		return grading.Verdict{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if out.IsCorrect == nil {
		return grading.Verdict{}, fmt.Errorf("%w: is_correct kosong", ErrBadResponse)
	}
	return grading.Verdict{IsCorrect: *out.IsCorrect, Reason: out.Reason}, nil
}
