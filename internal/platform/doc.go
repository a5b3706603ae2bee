// Package platform hides the operating-system differences the commands care
// about: hiding the interpreter's console window, reading a file's creation
// time and checking the executable bit.
package platform
