package sim

import (
	"github.com/vovakirdan/one-and-all/internal/core"
)

// StoryState is a step of the opening story. The sandbox is the last step
// and the only one where saving and resetting are allowed.
type StoryState int

const (
	StateStart StoryState = iota
	StateIntro
	StateChoice
	StateHope
	StateMiracles
	StateKindness
	StateDetermination
	StateReflection
	StateFirstCreation
	StateRevelation
	StateSandbox
)

// String returns a human-readable name for the state.
func (s StoryState) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateIntro:
		return "intro"
	case StateChoice:
		return "choice"
	case StateHope:
		return "hope"
	case StateMiracles:
		return "miracles"
	case StateKindness:
		return "kindness"
	case StateDetermination:
		return "determination"
	case StateReflection:
		return "reflection"
	case StateFirstCreation:
		return "first_creation"
	case StateRevelation:
		return "revelation"
	case StateSandbox:
		return "sandbox"
	default:
		return "unknown"
	}
}

type itemKind int

const (
	itemButton itemKind = iota
	itemText
	itemInstant
	itemPause
)

// pageItem is one element of a story page. Button positions are in view
// coordinates.
type pageItem struct {
	kind   itemKind
	rect   core.Rectangle
	text   []rune
	color  core.Color
	fill   core.Color
	hover  core.Color
	length float32

	// Choice buttons lead to next and tint the joining halo.
	next StoryState
	tint core.Color

	timer float32
	shown int
}

// advance progresses the item and reports whether it has fully appeared.
func (it *pageItem) advance(dt, textRate float32) bool {
	switch it.kind {
	case itemText:
		if it.shown >= len(it.text) {
			return true
		}
		it.timer += dt
		if it.timer > textRate {
			it.timer -= textRate
			it.shown++
		}
		return it.shown >= len(it.text)
	case itemPause:
		it.timer += dt
		return it.timer > it.length
	default:
		return true
	}
}

// visible returns the part of the item's text currently shown. Buttons and
// instant text are always fully shown.
func (it *pageItem) visible() string {
	switch it.kind {
	case itemText:
		return string(it.text[:it.shown])
	case itemPause:
		return ""
	default:
		return string(it.text)
	}
}

// page is a sequence of items that appear one after another.
type page struct {
	items  []pageItem
	cursor int
}

func (p *page) finished() bool {
	return p.cursor >= len(p.items)
}

// update advances the current item; items that complete pass the same dt on
// to the next one.
func (p *page) update(dt, textRate float32) {
	for p.cursor < len(p.items) {
		if !p.items[p.cursor].advance(dt, textRate) {
			return
		}
		p.cursor++
	}
}

// reveal shows everything on the page at once.
func (p *page) reveal() {
	for i := range p.items {
		p.items[i].shown = len(p.items[i].text)
	}
	p.cursor = len(p.items)
}

// buttonAt returns the index of the button containing (x, y), or -1.
func (p *page) buttonAt(x, y float32) int {
	for i := range p.items {
		if p.items[i].kind == itemButton && p.items[i].rect.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Text returns every line of the page that has appeared so far.
func (p *page) Text() []string {
	var lines []string
	for i := range p.items {
		if s := p.items[i].visible(); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func text(x, y float32, s string) pageItem {
	return pageItem{kind: itemText, rect: core.NewRectangle(x, y, 0, 0), text: []rune(s), color: core.White}
}

func instant(x, y float32, s string) pageItem {
	return pageItem{kind: itemInstant, rect: core.NewRectangle(x, y, 0, 0), text: []rune(s), color: core.White}
}

func pause(length float32) pageItem {
	return pageItem{kind: itemPause, length: length}
}

func button(r core.Rectangle, s string, fill, hover core.Color) pageItem {
	return pageItem{kind: itemButton, rect: r, text: []rune(s), color: core.White, fill: fill, hover: hover}
}

func choice(r core.Rectangle, s string, next StoryState, tint core.Color) pageItem {
	b := button(r, s, darken(tint), tint)
	b.color = core.Black
	b.next = next
	b.tint = tint
	return b
}

func darken(c core.Color) core.Color {
	return core.RGBA(c.R/4*3, c.G/4*3, c.B/4*3, c.A)
}

const continueHint = "(click to continue)"

// Colors the joining halo takes for each choice.
var (
	TintHope          = core.Hex(0xAACCFF)
	TintMiracles      = core.Hex(0xFFFFAA)
	TintKindness      = core.Hex(0xBBFFBB)
	TintDetermination = core.Hex(0xFFAAAA)
)

// pageFor builds the page shown in state s.
func pageFor(s StoryState) page {
	h := core.WorldHeight
	switch s {
	case StateStart:
		return page{items: []pageItem{
			button(core.NewRectangle(core.WorldWidth/2-120, 150, 240, 150), "Begin",
				core.Hex(0x33DDDD), core.Hex(0x66FFFF)),
			instant(70, 50, "One And All"),
			instant(25, h-100, "Click the box to begin. Double click later to create."),
			instant(25, h-50, "S saves, L loads and R starts over once the world is yours."),
		}}
	case StateIntro:
		return page{items: []pageItem{
			pause(0.5),
			text(50, h-140, "At first there is only a quiet dark."),
			pause(0.5),
			text(50, h-100, "No shapes, no light, nobody to notice either."),
			pause(0.5),
			text(50, h-60, "Then one small spark starts to wonder."),
			pause(0.1),
			text(570, h-50, continueHint),
		}}
	case StateChoice:
		return page{items: []pageItem{
			pause(0.3),
			text(50, 60, "Something else is out there, far away."),
			pause(0.3),
			text(50, 100, "What will you bring when you meet it?"),
			pause(0.2),
			choice(core.NewRectangle(50, 200, 300, 60), "Hope", StateHope, TintHope),
			choice(core.NewRectangle(450, 200, 300, 60), "Miracles", StateMiracles, TintMiracles),
			choice(core.NewRectangle(50, 320, 300, 60), "Kindness", StateKindness, TintKindness),
			choice(core.NewRectangle(450, 320, 300, 60), "Determination", StateDetermination, TintDetermination),
		}}
	case StateHope:
		return reflection("You bring hope, and the distance feels shorter.")
	case StateMiracles:
		return reflection("You bring miracles, and the dark starts to listen.")
	case StateKindness:
		return reflection("You bring kindness, and the other spark drifts closer.")
	case StateDetermination:
		return reflection("You bring determination, and nothing can keep you apart.")
	case StateReflection:
		return page{items: []pageItem{
			pause(0.5),
			text(50, h-140, "Two sparks circle each other."),
			pause(0.5),
			text(50, h-100, "Alone they were nothing much. Together they could make something."),
			pause(0.1),
			text(570, h-50, continueHint),
		}}
	case StateFirstCreation:
		return page{items: []pageItem{
			instant(50, h-100, "Double click anywhere to make something."),
		}}
	case StateRevelation:
		return page{items: []pageItem{
			pause(1.0),
			text(50, h-140, "A world gathers itself out of the dust."),
			pause(0.5),
			text(50, h-100, "It is only the first one."),
			pause(0.1),
			text(570, h-50, continueHint),
		}}
	case StateSandbox:
		return page{items: []pageItem{
			text(50, h-100, "Everything from here on is yours to make."),
			pause(0.2),
			text(50, h-60, "Double click to create. Click to move."),
		}}
	}
	return page{}
}

func reflection(line string) page {
	h := core.WorldHeight
	return page{items: []pageItem{
		pause(0.5),
		text(50, h-140, line),
		pause(0.1),
		text(570, h-50, continueHint),
	}}
}
