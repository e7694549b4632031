package chart

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	ErrTargetInUse     = errors.New("chart: target already has a live chart")
	ErrUnsupportedType = errors.New("chart: unsupported chart type")
)

const minWidth = 20

var mutedStyle = lipgloss.NewStyle().Faint(true)

// Terminal draws charts as text. Each target holds at most one live chart;
// Create on a target that was not released fails with ErrTargetInUse.
type Terminal struct {
	mu    sync.Mutex
	width int
	live  map[string]*termHandle
}

func NewTerminal(width int) *Terminal {
	return &Terminal{width: width, live: map[string]*termHandle{}}
}

// SetWidth sets the width View draws at.
func (t *Terminal) SetWidth(w int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.width = w
}

func (t *Terminal) Create(target string, cfg Config) (Handle, error) {
	if cfg.Type != Doughnut && cfg.Type != Bar {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, cfg.Type)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.live[target]; busy {
		return nil, fmt.Errorf("%w: %s", ErrTargetInUse, target)
	}
	h := &termHandle{t: t, target: target, cfg: cfg}
	t.live[target] = h
	return h, nil
}

// View draws the chart bound to target, or "" when nothing is bound.
func (t *Terminal) View(target string) string {
	t.mu.Lock()
	h, ok := t.live[target]
	width := t.width
	t.mu.Unlock()
	if !ok {
		return ""
	}
	if width < minWidth {
		width = minWidth
	}
	switch h.cfg.Type {
	case Doughnut:
		return renderDoughnut(h.cfg, width)
	default:
		return renderBar(h.cfg, width)
	}
}

// Live returns the targets that currently have a chart.
func (t *Terminal) Live() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.live))
	for target := range t.live {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

type termHandle struct {
	t      *Terminal
	target string
	cfg    Config
}

// Destroy releases the target. Destroying twice is a no-op.
func (h *termHandle) Destroy() {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	if h.t.live[h.target] == h {
		delete(h.t.live, h.target)
	}
}

func colorAt(colors []string, i int) lipgloss.Style {
	if len(colors) == 0 {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i%len(colors)]))
}

func renderDoughnut(cfg Config, width int) string {
	if len(cfg.Data.Datasets) == 0 {
		return mutedStyle.Render("no data")
	}
	ds := cfg.Data.Datasets[0]
	values := clampNonNegative(ds.Data)

	total := 0
	for _, v := range values {
		total += v
	}

	var bar strings.Builder
	if total == 0 {
		bar.WriteString(mutedStyle.Render(strings.Repeat("░", width)))
	} else {
		for i, w := range Proportions(values, width) {
			bar.WriteString(colorAt(ds.BackgroundColor, i).Render(strings.Repeat("█", w)))
		}
	}

	if !cfg.Options.Legend.Display {
		return bar.String()
	}
	var legend []string
	for i, label := range cfg.Data.Labels {
		v := 0
		if i < len(values) {
			v = values[i]
		}
		pct := 0
		if total > 0 {
			pct = v * 100 / total
		}
		legend = append(legend, fmt.Sprintf("%s %s %d (%d%%)",
			colorAt(ds.BackgroundColor, i).Render("●"), label, v, pct))
	}
	legendLine := strings.Join(legend, "   ")
	if cfg.Options.Legend.Position == "top" {
		return legendLine + "\n" + bar.String()
	}
	return bar.String() + "\n" + legendLine
}

func renderBar(cfg Config, width int) string {
	if len(cfg.Data.Labels) == 0 || len(cfg.Data.Datasets) == 0 {
		return mutedStyle.Render("no data")
	}
	ds := cfg.Data.Datasets[0]
	values := clampNonNegative(ds.Data)

	maxV := 0
	for _, v := range values {
		maxV = max(maxV, v)
	}
	step := 0
	if cfg.Options.Y != nil {
		step = cfg.Options.Y.StepSize
	}
	ticks := Ticks(maxV, step)
	top := ticks[len(ticks)-1]

	labelW := 0
	for _, l := range cfg.Data.Labels {
		labelW = max(labelW, lipgloss.Width(l))
	}
	topW := len(strconv.Itoa(top))
	barW := max(width-labelW-topW-4, 5)

	var lines []string
	if cfg.Options.Legend.Display && ds.Label != "" {
		lines = append(lines, ds.Label)
	}
	style := colorAt(ds.BackgroundColor, 0)
	for i, label := range cfg.Data.Labels {
		v := 0
		if i < len(values) {
			v = values[i]
		}
		n := scale(v, top, barW)
		pad := strings.Repeat(" ", labelW-lipgloss.Width(label))
		lines = append(lines, fmt.Sprintf("%s%s │%s %d", pad, label, style.Render(strings.Repeat("█", n)), v))
	}
	lines = append(lines, strings.Repeat(" ", labelW+1)+"└"+strings.Repeat("─", barW))
	lines = append(lines, strings.Repeat(" ", labelW+2)+tickLine(ticks, top, barW))
	return strings.Join(lines, "\n")
}

// tickLine places each tick label under its column, skipping labels that
// would overlap the previous one.
func tickLine(ticks []int, top, barW int) string {
	row := []rune(strings.Repeat(" ", barW+len(strconv.Itoa(top))+1))
	next := 0
	for _, tick := range ticks {
		col := scale(tick, top, barW)
		s := strconv.Itoa(tick)
		if col < next || col+len(s) > len(row) {
			continue
		}
		copy(row[col:], []rune(s))
		next = col + len(s) + 1
	}
	return strings.TrimRight(string(row), " ")
}

func scale(v, top, width int) int {
	if top <= 0 {
		return 0
	}
	return (v*width + top/2) / top
}

func clampNonNegative(in []int) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = max(v, 0)
	}
	return out
}

// Ticks returns integer axis ticks from 0 up to at least maxV. The step is
// a multiple of step (1 when step <= 0) chosen so there are at most six.
func Ticks(maxV, step int) []int {
	if step <= 0 {
		step = 1
	}
	base := step
	for _, mult := range []int{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000} {
		step = base * mult
		if (maxV+step-1)/step <= 5 {
			break
		}
	}
	for (maxV+step-1)/step > 5 {
		step *= 10
	}
	top := max((maxV+step-1)/step*step, step)
	out := make([]int, 0, top/step+1)
	for v := 0; v <= top; v += step {
		out = append(out, v)
	}
	return out
}

// Proportions splits width between values by the largest-remainder method;
// the parts always sum to width when any value is positive.
func Proportions(values []int, width int) []int {
	out := make([]int, len(values))
	total := 0
	for _, v := range values {
		total += max(v, 0)
	}
	if total == 0 || width <= 0 {
		return out
	}

	type rem struct{ i, r int }
	rems := make([]rem, 0, len(values))
	used := 0
	for i, v := range values {
		v = max(v, 0)
		out[i] = v * width / total
		used += out[i]
		rems = append(rems, rem{i, v * width % total})
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].r > rems[b].r })
	for k := 0; used < width; k++ {
		out[rems[k%len(rems)].i]++
		used++
	}
	return out
}
