// Package accelerator implements the accelerator grammar used to describe
// per-surface keyboard shortcuts, and the normalized key-event model that
// both accelerator strings and raw key input are converted into.
//
// # Grammar
//
// An accelerator is a "+"-separated list of tokens. Every token is either a
// modifier or a regular key, matched case-insensitively, and exactly one
// token must be a regular key:
//
//	Ctrl+Shift+Up
//	CommandOrControl+K
//	Alt+F4
//	Plus
//
// Modifiers: Shift, Control (Ctrl), Alt, AltGr, Option (macOS only),
// Command (Cmd, macOS only), Super, CommandOrControl (CmdOrCtrl).
//
// # Key events
//
// ToKeyEvent converts an accelerator into a KeyEvent and InputToKeyEvent
// converts a raw key-down Input into the same shape. Equal is the single
// comparison used to decide whether an input triggers a shortcut.
package accelerator
