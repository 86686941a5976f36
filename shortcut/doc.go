// Package shortcut scopes keyboard shortcuts to a single surface (a window
// or embedded view) instead of the whole process.
//
// A Registry keeps, per surface, the ordered list of registered
// accelerators. The first registration on a surface attaches an input
// observer and a destroy hook; removing the last shortcut, calling
// UnregisterAll, or destroying the surface detaches both and drops the
// entry. On every key-down input the first matching shortcut fires and the
// scan stops.
//
//	reg := shortcut.NewRegistry()
//	if err := reg.Register(win, "CmdOrCtrl+R", reload); err != nil {
//		return err
//	}
package shortcut
