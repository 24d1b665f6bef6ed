// Package newsletter runs the daily digest pipeline: check the send guard,
// fetch the digest from a search agent, strip code fences and check the HTML,
// then email it and record the send.
//
// Every failure is fatal to the run and surfaces as *ContentFetchError or
// *DispatchError. Nothing is persisted except the optional guard record.
package newsletter
