// Package omnicontacts imports a user's address book from OAuth2 contacts
// providers such as Gmail and Hotmail and returns it in one normalized shape.
//
// The module is organized as a set of focused packages:
//
//   - pkg/contacts: the provider-independent contact model, partial dates,
//     name and address normalization, deduplication
//   - pkg/importer: the OAuth2 flow state machine, the provider adapter
//     contract, the Gmail and Hotmail adapters, the import pipeline
//   - pkg/web: an HTTP gateway mounting the authorize/callback routes with
//     one-time CSRF state tokens
//   - pkg/config, pkg/logger, pkg/redis: environment configuration, slog
//     construction, and the Redis connect helper for the shared state store
//
// Basic Usage:
//
//	gmail := importer.NewGmail(nil, importer.GmailConfig{})
//
//	gw := web.New(web.Config{}, nil, func(w http.ResponseWriter, r *http.Request, user *contacts.User, list []contacts.Contact) {
//		// Persist or render the imported contacts.
//	})
//	gw.Register(gmail, importer.FlowConfig{
//		ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
//		ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
//		RedirectURL:  "https://app.example.com/contacts/gmail/callback",
//	})
//	http.ListenAndServe(":8080", gw)
//
// The flow can also be driven directly without the HTTP gateway; see
// pkg/importer for the state machine walkthrough.
package omnicontacts
