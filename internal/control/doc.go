// Package control resolves one frame of user input into simulation state.
//
// The [Resolver] reads edge-triggered key releases (overlay toggles, theme,
// gravity mode, mouse-follow) and level-triggered key or mouse-button state
// (gravity point movement), then writes the gravity point, mode and flags of
// a [dynamo.State]. Windowing backends provide the [Input] interface; tests
// and headless runs use [Snapshot].
//
// Two layouts are provided:
//
//   - [NewClassic]: attract/repel flip, mouse buttons move the point sideways
//   - [NewModern]: disabled/attract/repel cycle, arrow keys move the point
package control
