package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/tidwall/jsonc"
)

var _ output.UserInteractionPort = (*Console)(nil)

const (
	bannerTitle = "Galaxy Tool Recommender"
	bannerHint  = "Type your question. Use /exit or Ctrl+D to quit. Use /clear to clear screen."
	helpText    = "Enter a message for the agent. /exit quits. /clear clears the screen. /color and /mono toggle colors."
	ruleWidth   = 72

	youIcon   = "👤"
	agentIcon = "🤖"
	toolIcon  = "🔧"
	dataIcon  = "📦"
)

// Console renders the chat transcript as plain labelled lines.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	colored  bool
	renderer *lipgloss.Renderer

	you   *color.Color
	agent *color.Color
	tool  *color.Color
	data  *color.Color
}

func NewConsole(out io.Writer, colored bool) *Console {
	c := &Console{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		you:      color.New(color.FgHiCyan, color.Bold),
		agent:    color.New(color.FgHiGreen, color.Bold),
		tool:     color.New(color.FgHiYellow, color.Bold),
		data:     color.New(color.FgMagenta, color.Bold),
	}
	c.SetColor(colored)
	return c
}

// SetColor switches between styled and monochrome output.
func (c *Console) SetColor(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.colored = enabled
	for _, col := range []*color.Color{c.you, c.agent, c.tool, c.data} {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	if enabled {
		c.renderer.SetColorProfile(termenv.ANSI256)
	} else {
		c.renderer.SetColorProfile(termenv.Ascii)
	}
}

func (c *Console) Colored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.colored
}

func (c *Console) ShowBanner(ctx context.Context) {
	c.ShowRule(ctx)
	c.ShowInfo(ctx, bannerHint)
}

func (c *Console) ShowRule(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	title := " " + bannerTitle + " "
	side := (ruleWidth - lipgloss.Width(title)) / 2
	if side < 3 {
		side = 3
	}
	line := strings.Repeat("─", side) + title + strings.Repeat("─", side)

	style := c.renderer.NewStyle().Foreground(lipgloss.Color("246"))
	fmt.Fprintln(c.out, style.Render(line))
}

func (c *Console) ShowHelp(ctx context.Context) {
	c.ShowInfo(ctx, helpText)
}

func (c *Console) ShowUser(ctx context.Context, text string) {
	c.printLine(c.you, "You:", youIcon, text)
}

func (c *Console) ShowAgent(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "(no response)"
	}
	c.printLine(c.agent, "Agent:", agentIcon, text)
}

func (c *Console) ShowToolStart(ctx context.Context, toolName string, args map[string]any) {
	c.printLine(c.tool, "Calling tool:", toolIcon, toolName+"...")
}

// ShowToolResult prints the tool output before the agent's answer,
// pretty-printed and highlighted when it is JSON.
func (c *Console) ShowToolResult(ctx context.Context, toolName, result string) {
	c.printLine(c.data, "Tool data:", dataIcon, toolName+" →")

	c.mu.Lock()
	defer c.mu.Unlock()

	data, isJSON := formatToolData(result)
	if isJSON && c.colored {
		if err := quick.Highlight(c.out, data+"\n", "json", "terminal256", "monokai"); err == nil {
			return
		}
	}
	fmt.Fprintln(c.out, data)
}

func (c *Console) ShowError(ctx context.Context, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "Error %s\n", err)
}

func (c *Console) ShowInfo(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

// Clear wipes the screen and moves the cursor home.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, "\x1b[H\x1b[2J")
}

// EraseLastLine removes the echoed input line.
func (c *Console) EraseLastLine() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, "\x1b[1A\x1b[2K")
}

// EventHandler renders tool activity as it happens during a turn.
func (c *Console) EventHandler() entity.EventHandler {
	return func(ctx context.Context, ev entity.TurnEvent) error {
		switch ev.Type {
		case entity.EventToolCall:
			c.ShowToolStart(ctx, ev.Name, ev.Args)
		case entity.EventToolResult:
			c.ShowToolResult(ctx, ev.Name, ev.Result)
		}
		return nil
	}
}

func (c *Console) printLine(label *color.Color, role, icon, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s %s\n", label.Sprint(role), icon, body)
}

// formatToolData pretty-prints JSON, then lenient JSON, then a literal-style
// dump as JSON, and otherwise returns the text unchanged.
func formatToolData(raw string) (string, bool) {
	for _, candidate := range [][]byte{[]byte(raw), jsonc.ToJSON([]byte(raw))} {
		var v any
		if err := json.Unmarshal(candidate, &v); err != nil {
			continue
		}
		if pretty, err := json.MarshalIndent(v, "", "  "); err == nil {
			return string(pretty), true
		}
	}

	if v, err := parseLiteral(raw); err == nil {
		if pretty, err := json.MarshalIndent(v, "", "  "); err == nil {
			return string(pretty), true
		}
	}
	return raw, false
}
