// Package web hosts the contacts import flow as an http.Handler.
//
// The gateway plays the role the hosting layer plays in the overall design:
// it turns an inbound web request into a started or completed OAuth2 run,
// leaving protocol logic to importer and normalization to the adapters.
//
//	gw := web.New(cfg, web.NewMemoryStateStore(), onImport)
//	gw.Register(importer.NewGmail(nil, gmailCfg), gmailFlowCfg)
//	gw.Register(importer.NewHotmail(nil, hotmailCfg), hotmailFlowCfg)
//	http.ListenAndServe(":8080", gw)
//
// Each run is protected by a one-time CSRF state token. The token is kept
// in a StateStore: in-memory for single instances, Redis-backed for
// multi-instance deployments.
package web
