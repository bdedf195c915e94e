package ui

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/effects"
	"github.com/tartampluch/go-countdown/internal/engine"
)

// slot is one countdown cell: a big number over a localized unit caption.
type slot struct {
	digits  *canvas.Text
	unit    *widget.Label
	unitKey string
}

// Display is the main window content. It implements engine.Surface; every
// mutation is marshalled onto the Fyne thread and unknown handles are skipped.
type Display struct {
	// Plural resolves a localized unit caption for a count.
	Plural func(key string, count int) string
	// Chime plays along with the confetti. Nil means silent.
	Chime func()

	slots        map[string]*slot
	cards        map[int]*LoveCard
	order        []*LoveCard
	banner       fyne.CanvasObject
	lockedPanel  fyne.CanvasObject
	contentPanel fyne.CanvasObject
	overlay      *fyne.Container
	root         fyne.CanvasObject
	rng          *rand.Rand

	urgent bool
}

// DisplayParts are the already localized pieces handed to NewDisplay.
type DisplayParts struct {
	Headline     string
	Banner       string
	Cards        []*LoveCard
	LockedPanel  fyne.CanvasObject
	ContentPanel fyne.CanvasObject
	Footer       fyne.CanvasObject
}

// NewDisplay builds the surface from its parts. The content panel starts hidden.
// The countdown shows placeholders until the first SetCountdown.
func NewDisplay(parts DisplayParts, plural func(key string, count int) string) *Display {
	d := &Display{
		Plural:       plural,
		slots:        make(map[string]*slot, len(config.CountdownSlots)),
		cards:        make(map[int]*LoveCard, len(parts.Cards)),
		order:        parts.Cards,
		lockedPanel:  parts.LockedPanel,
		contentPanel: parts.ContentPanel,
		overlay:      container.NewWithoutLayout(),
		rng:          effects.NewRand(),
	}

	unitKeys := map[string]string{
		config.SlotDays:    config.TKeyUnitDays,
		config.SlotHours:   config.TKeyUnitHours,
		config.SlotMinutes: config.TKeyUnitMinutes,
		config.SlotSeconds: config.TKeyUnitSeconds,
	}
	for _, name := range config.CountdownSlots {
		digits := canvas.NewText("--", theme.Color(theme.ColorNamePrimary))
		digits.TextSize = config.DigitTextSize
		digits.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
		digits.Alignment = fyne.TextAlignCenter

		unit := widget.NewLabel("")
		unit.Alignment = fyne.TextAlignCenter
		d.slots[name] = &slot{digits: digits, unit: unit, unitKey: unitKeys[name]}
	}

	for _, c := range parts.Cards {
		if c != nil {
			d.cards[c.Step] = c
		}
	}

	bannerLabel := widget.NewLabel(parts.Banner)
	bannerLabel.Importance = widget.DangerImportance
	bannerLabel.Alignment = fyne.TextAlignCenter
	bannerLabel.TextStyle = fyne.TextStyle{Bold: true}
	bannerLabel.Hide()
	d.banner = bannerLabel

	if d.contentPanel != nil {
		d.contentPanel.Hide()
	}

	d.root = d.layout(parts)
	return d
}

// Content returns the widget tree with the confetti overlay on top.
func (d *Display) Content() fyne.CanvasObject { return d.root }

func (d *Display) layout(parts DisplayParts) fyne.CanvasObject {
	headline := canvas.NewText(parts.Headline, theme.Color(theme.ColorNameForeground))
	headline.TextSize = config.HeadlineTextSize
	headline.TextStyle = fyne.TextStyle{Bold: true}
	headline.Alignment = fyne.TextAlignCenter

	cells := make([]fyne.CanvasObject, 0, len(config.CountdownSlots))
	for _, name := range config.CountdownSlots {
		s := d.slots[name]
		cells = append(cells, container.NewVBox(s.digits, s.unit))
	}

	cardObjs := make([]fyne.CanvasObject, 0, len(d.order))
	for _, c := range d.order {
		if c != nil {
			cardObjs = append(cardObjs, c)
		}
	}

	body := container.NewVBox(
		headline,
		container.NewGridWithColumns(len(cells), cells...),
		d.banner,
		container.NewGridWithColumns(config.CardColumns, cardObjs...),
	)
	if d.lockedPanel != nil || d.contentPanel != nil {
		var panels []fyne.CanvasObject
		for _, p := range []fyne.CanvasObject{d.lockedPanel, d.contentPanel} {
			if p != nil {
				panels = append(panels, p)
			}
		}
		body.Add(container.NewStack(panels...))
	}
	if parts.Footer != nil {
		body.Add(parts.Footer)
	}

	return container.NewStack(container.NewVScroll(container.NewPadded(body)), d.overlay)
}

// SetCountdown implements engine.Surface
func (d *Display) SetCountdown(r engine.Remaining) {
	values := map[string]int{
		config.SlotDays:    r.Days,
		config.SlotHours:   r.Hours,
		config.SlotMinutes: r.Minutes,
		config.SlotSeconds: r.Seconds,
	}
	fyne.Do(func() {
		for name, v := range values {
			s, ok := d.slots[name]
			if !ok {
				continue
			}
			s.digits.Text = fmt.Sprintf("%02d", v)
			s.digits.Refresh()
			if d.Plural != nil {
				s.unit.SetText(d.Plural(s.unitKey, v))
			}
		}
	})
}

// SetCardLocked implements engine.Surface
func (d *Display) SetCardLocked(step int, locked bool) {
	c, ok := d.cards[step]
	if !ok {
		return
	}
	fyne.Do(func() { c.SetLocked(locked) })
}

// SetUrgent implements engine.Surface
func (d *Display) SetUrgent(urgent bool) {
	fyne.Do(func() {
		if d.urgent == urgent {
			return
		}
		d.urgent = urgent

		col := theme.Color(theme.ColorNamePrimary)
		if urgent {
			col = theme.Color(theme.ColorNameError)
			d.banner.Show()
		} else {
			d.banner.Hide()
		}
		for _, s := range d.slots {
			s.digits.Color = col
			s.digits.Refresh()
		}
	})
}

// RevealFinale implements engine.Surface
func (d *Display) RevealFinale() {
	fyne.Do(func() {
		if d.lockedPanel != nil {
			d.lockedPanel.Hide()
		}
		if d.contentPanel != nil {
			d.contentPanel.Show()
		}
	})
}

// SlotText returns the digits and unit caption currently shown in a slot.
func (d *Display) SlotText(name string) (digits, unit string) {
	s, ok := d.slots[name]
	if !ok {
		return "", ""
	}
	return s.digits.Text, s.unit.Text
}

// Urgent reports whether the urgency styling is active.
func (d *Display) Urgent() bool { return d.urgent }

// Celebrate drops a burst of confetti over the window and plays the chime.
func (d *Display) Celebrate() {
	particles := effects.NewConfetti(config.ConfettiCount, d.rng)
	fyne.Do(func() {
		for _, p := range particles {
			d.dropConfetti(p)
		}
	})
	if d.Chime != nil {
		d.Chime()
	}
}

// ConfettiCount returns the number of confetti pieces still falling.
func (d *Display) ConfettiCount() int { return len(d.overlay.Objects) }

// FadeInCards staggers the appearance of the cards by their position.
func (d *Display) FadeInCards() {
	for i, c := range d.order {
		if c == nil {
			continue
		}
		c.FadeIn(time.Duration(i) * config.CardFadeStagger)
	}
}

func (d *Display) dropConfetti(p effects.Particle) {
	piece := canvas.NewRectangle(color.Color(p.Color))
	piece.Resize(fyne.NewSize(config.ConfettiWidth, config.ConfettiHeight))

	area := d.overlay.Size()
	x := p.X * area.Width
	piece.Move(fyne.NewPos(x, -config.ConfettiHeight))
	d.overlay.Add(piece)

	anim := fyne.NewAnimation(p.Duration, func(done float32) {
		fall := d.overlay.Size().Height + config.ConfettiHeight
		piece.Move(fyne.NewPos(x, done*fall-config.ConfettiHeight))
		if done >= 1 {
			d.overlay.Remove(piece)
		}
	})
	anim.Curve = fyne.AnimationLinear

	time.AfterFunc(p.Delay, func() {
		fyne.Do(anim.Start)
	})
}
