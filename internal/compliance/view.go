package compliance

import "assetgov/pkg/domain"

// ModuleView describes one bound module and its settings for the engine.
type ModuleView struct {
	Address   domain.Address `json:"address"`
	Name      string         `json:"name"`
	Shareable bool           `json:"shareable"`
	Settings  any            `json:"settings,omitempty"`
}

// View is a read-only snapshot of an engine.
type View struct {
	Address   domain.Address `json:"address"`
	Authority domain.Address `json:"authority"`
	Asset     domain.Address `json:"asset"`
	Modules   []ModuleView   `json:"modules"`
}

// Snapshot builds a View of e.
func (e *Engine) Snapshot() *View {
	v := &View{
		Address:   e.Address(),
		Authority: e.front.Authority(),
		Asset:     e.asset,
		Modules:   make([]ModuleView, 0, len(e.modules)),
	}
	for _, addr := range e.modules {
		mv := ModuleView{Address: addr}
		if m, err := e.module(addr); err == nil {
			mv.Name = m.Name()
			mv.Shareable = m.Shareable()
			mv.Settings = m.Settings(e.Address())
		}
		v.Modules = append(v.Modules, mv)
	}
	return v
}
