// Package vetbuddy renders the VetBuddy landing page on [Ebitengine]: a
// vertically scrolling document of sections whose elements animate as the
// visitor scrolls.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and the
// page loop for you:
//
//	page := vetbuddy.NewPage(1280, 800, vetbuddy.DefaultBackgroundConfig())
//	// ... add sections ...
//	vetbuddy.Run(page, vetbuddy.RunConfig{
//		Title: "VetBuddy", Width: 1280, Height: 800,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Page.Update] and [Page.Draw] directly.
//
// # Scroll animation
//
// Animation is a three stage pipeline:
//
//   - An [Observer] watches the scroll offset and viewport size and reports,
//     for every [ScrollTrigger], how far the page has scrolled through the
//     trigger's region as a fraction in [0, 1].
//   - A [Registry] binds each trigger ID to exactly one [Timeline]. Registering
//     a second timeline under the same ID retires the first.
//   - A [Sequencer] turns progress into property writes. Scrubbed timelines
//     follow progress directly and run backwards when the visitor scrolls
//     up. Fire-once timelines start playing on their own clock the first
//     time their trigger leaves 0 and never replay for that registration.
//
// Timelines are ordered [Step] values. Each step targets elements by
// selector ("#id" or ".class"), interpolates one or more [Property] values
// over a window of the timeline and may stagger grouped targets. Sampling is
// deterministic: the same progress always yields the same element state.
//
// # Sections
//
// A [Section] is an element subtree plus its trigger/timeline bindings.
// [Page.AddSection] stacks sections top to bottom and registers their
// timelines; [Page.RemoveSection] retires them again. The layout subpackage
// builds sections from YAML.
//
// # Background
//
// [Background] is a decorative layer of drifting particles, larger floating
// shapes and a pointer trail, drawn in one call per frame. It reads the
// [PointerTracker] state and never interacts with the sequencer.
//
// # Testing
//
// [Page.Advance] steps the page clock without input, and [LoadTestScript]
// plus the Inject methods drive a page from JSON scripts for automated
// runs.
//
// [Ebitengine]: https://ebitengine.org
package vetbuddy
