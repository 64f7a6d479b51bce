/*
Package logging implements application log instrumentation and Apache
combined access log.

# Application Log

The application log uses the logrus package:

https://github.com/sirupsen/logrus

To send messages to the application log, import this package and use its
methods. Example:

	import log "github.com/sirupsen/logrus"

	func doSomething() {
		log.Errorf("nothing to do")
	}

During startup initialization, it is possible to redirect the log output
from the default /dev/stderr to another file, set the level, and set a
common prefix for each log entry. Setting the prefix may be a good idea
when the access log is enabled and its output is the same as the one of
the application log, to make it easier to split the output for
diagnostics.

Components that accept a custom logger take a Logger. The DefaultLog
implementation forwards to logrus, and the loggingtest package provides a
logger that tests can wait on.

# Access Log

The access log prints HTTP access information in the Apache combined
access log format, extended with the request duration, the requested host
and the endpoint that served the request. NewHandler wraps a handler and
logs every request. The wrapped handler can record the served endpoint
with SetEndpoint.

During initialization, it is possible to redirect the access log output
from the default /dev/stderr to another file, to switch to JSON, or to
completely disable the access log.
*/
package logging
