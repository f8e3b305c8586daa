// file: internals/features/realtime/controller/stream_controller.go
package controller

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"trainingku_backend/internals/features/realtime/broadcaster"
	helper "trainingku_backend/internals/helpers"
	helperAuth "trainingku_backend/internals/helpers/auth"
)

type StreamController struct {
	Hub       broadcaster.Broadcaster
	Heartbeat time.Duration
}

func NewStreamController(hub broadcaster.Broadcaster) *StreamController {
	return &StreamController{Hub: hub, Heartbeat: 25 * time.Second}
}

// GET /api/u/events/stream?branch_id=
// Server-Sent Events; koneksi bertahan sampai klien memutus.
func (ctl *StreamController) Stream(c *fiber.Ctx) error {
	branchID, err := helperAuth.BranchIDFromQuery(c)
	if err != nil {
		return helper.FromServiceError(c, err)
	}
	if err := helperAuth.EnsureBranchAccess(c, branchID); err != nil {
		return helper.FromServiceError(c, err)
	}

	// ctx request fiber tidak berlaku lagi setelah handler return
	ctx, cancel := context.WithCancel(context.Background())
	msgs, unsubscribe, err := ctl.Hub.Subscribe(ctx, branchID)
	if err != nil {
		cancel()
		log.Printf("[SSE] subscribe branch=%s gagal: %v", branchID, err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Layanan realtime tidak tersedia")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	userID, _ := helperAuth.GetUserID(c)
	heartbeat := ctl.Heartbeat
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	log.Printf("[SSE] connect user=%s branch=%s", userID, branchID)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			unsubscribe()
			cancel()
			log.Printf("[SSE] disconnect user=%s branch=%s", userID, branchID)
		}()

		if err := writeComment(w, "connected"); err != nil {
			return
		}

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := writeData(w, msg); err != nil {
					return
				}
			case <-ticker.C:
				if err := writeComment(w, "ping"); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeData(w *bufio.Writer, msg []byte) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", msg); err != nil {
		return err
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	return w.Flush()
}
