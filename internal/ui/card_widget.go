package ui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-countdown/internal/config"
	"github.com/tartampluch/go-countdown/internal/effects"
)

var (
	cardLockedColor   = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x40}
	cardUnlockedColor = color.NRGBA{R: 0xff, G: 0xa5, B: 0xc3, A: 0xff}
	cardFlippedColor  = color.NRGBA{R: 0xff, G: 0x6b, B: 0x9d, A: 0xff}
	sparkleColor      = color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
)

// LoveCard is one daily card. It starts locked; only an unlocked card reacts
// to taps (flip) and hover (sparkles).
type LoveCard struct {
	widget.BaseWidget

	Step       int
	Title      string
	Body       string
	LockedText string
	BackText   string

	locked  bool
	flipped bool
	fade    float32

	sparkles *fyne.Container
}

// NewLoveCard creates a locked card for the given step.
func NewLoveCard(step int, title, body, lockedText, backText string) *LoveCard {
	c := &LoveCard{
		Step:       step,
		Title:      title,
		Body:       body,
		LockedText: lockedText,
		BackText:   backText,
		locked:     true,
		fade:       1,
		sparkles:   container.NewWithoutLayout(),
	}
	c.ExtendBaseWidget(c)
	return c
}

// Locked reports the current lock state.
func (c *LoveCard) Locked() bool { return c.locked }

// Flipped reports whether the card shows its back side.
func (c *LoveCard) Flipped() bool { return c.flipped }

// SparkleCount returns the number of sparkles currently on the card.
func (c *LoveCard) SparkleCount() int { return len(c.sparkles.Objects) }

// SetLocked updates the lock state. Locking a card also turns it face up.
func (c *LoveCard) SetLocked(locked bool) {
	if c.locked == locked {
		return
	}
	c.locked = locked
	if locked {
		c.flipped = false
	}
	c.Refresh()
}

// FadeIn hides the card and animates it back in after delay.
func (c *LoveCard) FadeIn(delay time.Duration) {
	c.fade = 0
	c.Refresh()

	anim := fyne.NewAnimation(config.CardFadeDuration, func(p float32) {
		c.fade = p
		c.Refresh()
	})
	anim.Curve = fyne.AnimationEaseOut

	time.AfterFunc(delay, func() {
		fyne.Do(anim.Start)
	})
}

// CreateRenderer implements fyne.Widget
func (c *LoveCard) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(cardLockedColor)
	bg.CornerRadius = theme.Padding() * 2

	title := canvas.NewText(c.Title, theme.Color(theme.ColorNameForeground))
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	body := canvas.NewText("", theme.Color(theme.ColorNameForeground))
	body.Alignment = fyne.TextAlignCenter
	body.TextSize = theme.CaptionTextSize()

	r := &loveCardRenderer{card: c, bg: bg, title: title, body: body}
	r.Refresh()
	return r
}

// Tapped implements fyne.Tappable
func (c *LoveCard) Tapped(*fyne.PointEvent) {
	if c.locked {
		return
	}
	c.flipped = !c.flipped
	c.Refresh()
}

// MouseIn implements desktop.Hoverable
func (c *LoveCard) MouseIn(*desktop.MouseEvent) {
	if c.locked {
		return
	}
	c.spawnSparkles()
}

// MouseMoved implements desktop.Hoverable
func (c *LoveCard) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable
func (c *LoveCard) MouseOut() {}

// spawnSparkles scatters short-lived glyphs over the card. Each one fades out
// and is removed once its lifetime is over.
func (c *LoveCard) spawnSparkles() {
	size := c.Size()
	for _, s := range effects.NewSparkles(config.SparkleCount, effects.NewRand()) {
		glyph := canvas.NewText(config.SparkleGlyph, sparkleColor)
		glyph.Move(fyne.NewPos(s.X*size.Width, s.Y*size.Height))
		c.sparkles.Add(glyph)

		anim := canvas.NewColorRGBAAnimation(sparkleColor, color.Transparent, config.SparkleLifetime, func(col color.Color) {
			glyph.Color = col
			glyph.Refresh()
		})

		time.AfterFunc(s.Delay, func() {
			fyne.Do(anim.Start)
		})
		time.AfterFunc(s.Delay+config.SparkleLifetime, func() {
			fyne.Do(func() { c.sparkles.Remove(glyph) })
		})
	}
}

type loveCardRenderer struct {
	card  *LoveCard
	bg    *canvas.Rectangle
	title *canvas.Text
	body  *canvas.Text
}

func (r *loveCardRenderer) Layout(size fyne.Size) {
	pad := theme.Padding()
	r.bg.Resize(size)

	titleSize := r.title.MinSize()
	r.title.Move(fyne.NewPos(0, pad))
	r.title.Resize(fyne.NewSize(size.Width, titleSize.Height))

	r.body.Move(fyne.NewPos(0, titleSize.Height+pad*2))
	r.body.Resize(fyne.NewSize(size.Width, r.body.MinSize().Height))

	r.card.sparkles.Resize(size)
}

func (r *loveCardRenderer) MinSize() fyne.Size {
	pad := theme.Padding()
	titleSize := r.title.MinSize()
	bodySize := r.body.MinSize()
	width := max(titleSize.Width, bodySize.Width) + pad*4
	height := titleSize.Height + bodySize.Height + pad*4
	return fyne.NewSize(max(width, 140), max(height, 90))
}

func (r *loveCardRenderer) Refresh() {
	c := r.card

	fill := cardUnlockedColor
	text := c.Body
	switch {
	case c.locked:
		fill = cardLockedColor
		text = c.LockedText
	case c.flipped:
		fill = cardFlippedColor
		text = c.BackText
	}
	fill.A = uint8(float32(fill.A) * c.fade)

	fg := color.NRGBAModel.Convert(theme.Color(theme.ColorNameForeground)).(color.NRGBA)
	fg.A = uint8(float32(fg.A) * c.fade)

	r.bg.FillColor = fill
	r.title.Text = c.Title
	r.title.Color = fg
	r.body.Text = text
	r.body.Color = fg

	r.Layout(c.Size())
	r.bg.Refresh()
	r.title.Refresh()
	r.body.Refresh()
}

func (r *loveCardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.title, r.body, r.card.sparkles}
}

func (r *loveCardRenderer) Destroy() {}
