package cargolist

// PanelState is the state of a customization panel.
type PanelState int

const (
	// PanelOpen holds untouched working copies.
	PanelOpen PanelState = iota
	// PanelDirty holds at least one changed working copy.
	PanelDirty
	// PanelClosed accepts no further operations.
	PanelClosed
)

// String returns the state name.
func (s PanelState) String() string {
	switch s {
	case PanelOpen:
		return "open"
	case PanelDirty:
		return "dirty"
	default:
		return "closed"
	}
}

// ResetConfirmText is the question the user must accept before a reset.
const ResetConfirmText = "Are you sure you want to reset all content and settings to their original defaults? " +
	"This action cannot be undone and will also reset the item list."

// Panel stages edits to header, footer, watermark and theme. Nothing reaches
// the editor until Save; Cancel drops the working copies.
// A Panel is not safe for concurrent use.
type Panel struct {
	editor *Editor
	state  PanelState
	work   Customization
}

// OpenPanel snapshots the committed slices into working copies.
func OpenPanel(e *Editor) *Panel {
	return &Panel{editor: e, state: PanelOpen, work: e.Customization()}
}

// State returns the current panel state.
func (p *Panel) State() PanelState { return p.state }

// Working returns the working copies.
func (p *Panel) Working() Customization { return p.work }

// SetHeader replaces the header working copy.
func (p *Panel) SetHeader(h HeaderState) error {
	return p.stage(func(c *Customization) { c.Header = h })
}

// SetFooter replaces the footer working copy.
func (p *Panel) SetFooter(f FooterState) error {
	return p.stage(func(c *Customization) { c.Footer = f })
}

// SetWatermark replaces the watermark working copy.
func (p *Panel) SetWatermark(w WatermarkState) error {
	return p.stage(func(c *Customization) { c.Watermark = w })
}

// SetTheme replaces the theme working copy.
func (p *Panel) SetTheme(t ThemeState) error {
	return p.stage(func(c *Customization) { c.Theme = t })
}

// SetAll replaces every working copy, as a submitted form does.
func (p *Panel) SetAll(c Customization) error {
	return p.stage(func(w *Customization) { *w = c })
}

func (p *Panel) stage(apply func(*Customization)) error {
	if p.state == PanelClosed {
		return ErrPanelClosed
	}
	before := p.work
	apply(&p.work)
	if p.work != before {
		p.state = PanelDirty
	}
	return nil
}

// Save commits the four working copies in one step and closes the panel.
func (p *Panel) Save() error {
	if p.state == PanelClosed {
		return ErrPanelClosed
	}
	p.editor.ApplyCustomization(p.work)
	p.state = PanelClosed
	return nil
}

// Cancel drops the working copies and closes the panel.
func (p *Panel) Cancel() error {
	if p.state == PanelClosed {
		return ErrPanelClosed
	}
	p.work = Customization{}
	p.state = PanelClosed
	return nil
}

// Reset restores all five slices, the rows included, to their defaults and
// closes the panel. Without confirmation it returns ErrResetNotConfirmed and
// the panel stays as it was.
func (p *Panel) Reset(confirmed bool) error {
	if p.state == PanelClosed {
		return ErrPanelClosed
	}
	if !confirmed {
		return ErrResetNotConfirmed
	}
	if err := p.editor.ResetToDefaults(); err != nil {
		return err
	}
	p.state = PanelClosed
	return nil
}
