// Package factory provides a small generic registry used to build pluggable
// components (stores, metrics sinks) from configuration. A component is
// described by a type string and a map of raw settings; the registered
// factory decodes the settings into its own struct.
//
// Example usage:
//
//	reg := factory.NewRegistry[store.EnergyLogStore]()
//	reg.Register("sqlite", func(conf map[string]any) (store.EnergyLogStore, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return sqlite.Open(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": "energy.db"}})
package factory
