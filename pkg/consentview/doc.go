// Package consentview renders the consent banner and the preferences form as
// templ components.
//
// View implements consent.View, so a Manager configured with WithView patches
// these elements over DataStar after every save:
//
//	view := consentview.NewFromConfig(viewCfg)
//	manager, err := consent.NewFromConfig(consentCfg, consent.WithView(view))
//
// The banner is always rendered when a banner id is configured; while hidden it
// carries the configured class (default "hidden") so a later patch can show it
// again. The preferences form renders an on/off radio group per optional
// category and, when prefill is enabled, checks the radio matching the stored
// marker. Both components render nothing when their element id is empty.
package consentview
