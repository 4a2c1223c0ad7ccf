// Package redact contains the core components of Redact, a framework for anonymizing columns of
// delimited datasets. This root package defines types which are employed during the regular use of
// the framework, as well as in the extension of the framework, and is an overview of Redact's key
// concepts: Schemas, Rows, Partitions, Relations, Tasks and ExecutionContexts.
package redact
