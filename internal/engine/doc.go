// Package engine invokes the DraftMate engine CLI as a subprocess and
// classifies the outcome. One call is one subprocess lifetime: the engine
// root is resolved fresh, the process runs to completion with both streams
// captured, and the result is either the verbatim stdout text or a typed
// failure (launch, execution, or output-decode).
package engine
