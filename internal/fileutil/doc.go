// Package fileutil expands directory arguments into the files they contain.
//
// In search mode multifast accepts directories as inputs. ExpandInputs walks
// each one with ScanDirectory and splices the files it finds, sorted, into
// the input list; everything else passes through untouched.
//
//	files, errs := fileutil.ExpandInputs(args, fileutil.ScanOptions{
//	    Recursive:   true,
//	    ExcludeDirs: []string{".git", "node_modules"},
//	})
//
// Walking is error tolerant: unreadable entries are collected in
// ScanResult.Errors and the walk continues. Hidden directories are skipped
// unless IncludeHidden is set, and symbolic links are not followed.
package fileutil
