// Package amazon contains the Amazon marketplace bounded context.
// It extends catalog products with marketplace identifiers and account links
// and builds the MWS feeds that publish catalog, pricing and inventory.
//
// Key concepts:
//   - ProductIdentifier: marketplace code (EAN/UPC/ISBN/ASIN/GTIN) attached to a product
//   - AccountLink: record that a product has been exported to an MWS account
//   - Account: MWS seller credentials and defaults
//   - Listing: a product composed with its identifiers and links (the Listable capability)
//   - FeedBuilder: renders AmazonEnvelope XML documents
//   - WizardSession: the start -> export -> done state machine driving an export
//
// Design Pattern: Ports & Adapters
//   - FeedSubmitter, CatalogLookup, FeedArchive and WizardStore are ports defined here
//   - Adapters live in the infrastructure layer (mws, storage, cache)
package amazon
