// Package obis contains the domain model for the OBIS attendance/grade
// monitor: the records scraped from the portal, the change events derived
// from them, the skip-budget policy and the contracts the infrastructure
// layer fulfils (portal session, history stores).
package obis
