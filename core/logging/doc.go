// Package logging defines the logging abstraction forwarded by logfwd.
//
// Logger is the method surface a host calls: five levels, each with a plain
// message form, a format-string form with positional arguments, a provider
// aware format-string form, a single value form and an exception form.
// Format strings use positional placeholders:
//
//	{index[,alignment][:spec]}
//
// with {{ and }} as literal braces. Values are rendered by a FormatProvider;
// Invariant is used when none is given and NewCulture builds culture aware
// providers on top of golang.org/x/text.
//
// Manager caches one Logger per source and is built from a Factory. Hosts
// compose a Manager and pass it to the components that need logging.
package logging
