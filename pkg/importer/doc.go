// Package importer drives the OAuth2 authorization flow and the contacts
// import pipeline across provider adapters.
//
// The flow is one state machine shared by every provider:
//
//	Unauthenticated → AuthorizationRequested → CallbackReceived →
//	Authenticated → ProfileFetched → ContactsFetched → Complete
//
// with Errored reachable from any non-terminal state. Only the endpoint
// URLs, scope and response shapes vary between providers, and those are
// supplied by a ProviderAdapter implementation; adding a provider never
// touches the flow or the pipeline.
//
// Typical use:
//
//	gmail := importer.NewGmail(nil, importer.GmailConfig{})
//	flow := importer.NewFlow(gmail, importer.FlowConfig{
//		ClientID:     clientID,
//		ClientSecret: clientSecret,
//		RedirectURL:  redirectURL,
//	})
//
//	redirect, _ := flow.AuthCodeURL(state)
//	// ... send the user to redirect, receive the callback ...
//	if err := flow.Callback(code, errCode); err != nil { ... }
//	if _, err := flow.Exchange(ctx); err != nil { ... }
//	user, list, err := flow.Import(ctx, importer.NewPipeline())
//
// All outbound calls go through the Transport interface, the single
// collaborator boundary for HTTPS. Transport failures, token-exchange
// failures and malformed responses abort the whole run; per-field absence
// in provider payloads never does.
package importer
