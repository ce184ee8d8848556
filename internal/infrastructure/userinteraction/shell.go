package userinteraction

import (
	"context"
	"errors"
	"io"
	"strings"

	"galaxy-recommender/internal/application/port/input"
	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"
)

// Shell is the interactive chat loop: slash commands are handled locally,
// anything else becomes a chat turn.
type Shell struct {
	chat    input.ChatService
	console *Console
	reader  LineReader
	model   string
	onEvent entity.EventHandler
	logger  output.LoggerPort
}

type ShellOption func(*Shell)

// WithModel overrides the model for every turn of the session.
func WithModel(model string) ShellOption {
	return func(s *Shell) { s.model = model }
}

// WithEventHandler adds an observer next to the console's own rendering.
func WithEventHandler(h entity.EventHandler) ShellOption {
	return func(s *Shell) { s.onEvent = h }
}

func NewShell(chat input.ChatService, console *Console, reader LineReader, logger output.LoggerPort, opts ...ShellOption) *Shell {
	s := &Shell{
		chat:    chat,
		console: console,
		reader:  reader,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads input until /exit, /quit, end of input or ctx cancellation.
// Turn failures are printed and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	s.console.ShowBanner(ctx)

	handler := entity.FanOut(s.console.EventHandler(), s.onEvent)

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := s.reader.ReadLine()
		if errors.Is(err, io.EOF) {
			s.console.ShowInfo(ctx, "\nGoodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		switch strings.ToLower(text) {
		case "/exit", "/quit":
			return nil
		case "/clear", "/cls":
			s.console.Clear()
			s.console.ShowRule(ctx)
			continue
		case "/color":
			s.console.SetColor(true)
			s.console.ShowRule(ctx)
			continue
		case "/mono":
			s.console.SetColor(false)
			s.console.ShowRule(ctx)
			continue
		case "/help":
			s.console.ShowHelp(ctx)
			continue
		}

		if s.reader.Interactive() {
			s.console.EraseLastLine()
		}
		s.console.ShowUser(ctx, text)

		reply, err := s.chat.Turn(ctx, text, input.TurnOptions{Model: s.model, OnEvent: handler})
		if err != nil {
			s.logger.Error("Chat turn failed", "error", err)
			s.console.ShowError(ctx, err)
			continue
		}
		s.console.ShowAgent(ctx, reply)
	}
}
