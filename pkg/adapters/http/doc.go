/*
Package http carries behavior invocations over HTTP.

The receiving node serves NewHandler; the sending node uses Link, which maps
each peripheral source index to a base URL.

	GET  /health
	GET  /layer
	GET  /behaviors/{name}           resolve
	POST /behaviors/{name}/pressed   invoke
	POST /behaviors/{name}/released  invoke
	GET  /metrics                    when a gatherer is configured
*/
package http
