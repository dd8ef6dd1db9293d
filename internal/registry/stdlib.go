// Package registry is the static stand-in for querying a live CPython
// interpreter's sysconfig.get_paths()["stdlib"]: since there is no running
// interpreter to ask, the set of standard-library top-level module names
// is embedded as a manifest instead.
package registry

// stdlibModules is the set of CPython standard-library top-level module
// names, current as of the CPython 3.11 release. It is a simplification
// of a live sysconfig query: third-party packages that happen to share a
// name with a stdlib module are still treated as stdlib here.
var stdlibModules = buildStdlibSet([]string{
	"__future__", "_abc", "_ast", "_asyncio", "_bisect", "_codecs", "_collections",
	"_contextvars", "_csv", "_datetime", "_decimal", "_functools", "_heapq", "_imp",
	"_io", "_json", "_locale", "_operator", "_pickle", "_random", "_socket", "_sqlite3",
	"_ssl", "_stat", "_string", "_struct", "_thread", "_tracemalloc", "_warnings",
	"_weakref", "_weakrefset", "abc", "aifc", "argparse", "array", "ast", "asynchat",
	"asyncio", "asyncore", "atexit", "audioop", "base64", "bdb", "binascii", "bisect",
	"builtins", "bz2", "calendar", "cgi", "cgitb", "chunk", "cmath", "cmd", "code",
	"codecs", "codeop", "collections", "colorsys", "compileall", "concurrent",
	"configparser", "contextlib", "contextvars", "copy", "copyreg", "cProfile",
	"crypt", "csv", "ctypes", "curses", "dataclasses", "datetime", "dbm", "decimal",
	"difflib", "dis", "distutils", "doctest", "email", "encodings", "ensurepip",
	"enum", "errno", "faulthandler", "fcntl", "filecmp", "fileinput", "fnmatch",
	"fractions", "ftplib", "functools", "gc", "getopt", "getpass", "gettext", "glob",
	"graphlib", "grp", "gzip", "hashlib", "heapq", "hmac", "html", "http", "idlelib",
	"imaplib", "imghdr", "imp", "importlib", "inspect", "io", "ipaddress", "itertools",
	"json", "keyword", "lib2to3", "linecache", "locale", "logging", "lzma",
	"mailbox", "mailcap", "marshal", "math", "mimetypes", "mmap", "modulefinder",
	"msilib", "msvcrt", "multiprocessing", "netrc", "nis", "nntplib", "numbers",
	"operator", "optparse", "os", "ossaudiodev", "pathlib", "pdb", "pickle",
	"pickletools", "pipes", "pkgutil", "platform", "plistlib", "poplib", "posix",
	"posixpath", "pprint", "profile", "pstats", "pty", "pwd", "py_compile",
	"pyclbr", "pydoc", "queue", "quopri", "random", "re", "readline", "reprlib",
	"resource", "rlcompleter", "runpy", "sched", "secrets", "select", "selectors",
	"shelve", "shlex", "shutil", "signal", "site", "smtpd", "smtplib", "sndhdr",
	"socket", "socketserver", "spwd", "sqlite3", "ssl", "stat", "statistics",
	"string", "stringprep", "struct", "subprocess", "sunau", "symtable", "sys",
	"sysconfig", "syslog", "tabnanny", "tarfile", "telnetlib", "tempfile",
	"termios", "textwrap", "threading", "time", "timeit", "tkinter", "token",
	"tokenize", "tomllib", "trace", "traceback", "tracemalloc", "tty", "turtle",
	"turtledemo", "types", "typing", "unicodedata", "unittest", "urllib", "uu",
	"uuid", "venv", "warnings", "wave", "weakref", "webbrowser", "winreg",
	"winsound", "wsgiref", "xdrlib", "xml", "xmlrpc", "zipapp", "zipfile",
	"zipimport", "zlib", "zoneinfo",
})

func buildStdlibSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// IsStdlib reports whether module (or its top-level package, e.g. "os" for
// "os.path") is part of the embedded standard-library manifest.
func IsStdlib(module string) bool {
	_, ok := stdlibModules[topLevel(module)]
	return ok
}

func topLevel(module string) string {
	for i := 0; i < len(module); i++ {
		if module[i] == '.' {
			return module[:i]
		}
	}
	return module
}
