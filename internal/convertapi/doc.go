// Package convertapi is the stateless client for the remote conversion
// endpoint.
//
// Submit issues a single multipart request per item and reports the
// transport-level outcome together with the best-effort parsed JSON body; the
// queue engine decides what a non-2xx status or a malformed payload means for
// the item. Payload helpers decode the success envelope
// {fileName, mimeType, contentBase64} and the error envelope
// {error: {code, message}}.
package convertapi
