// Package manifest reads Steam KeyValues text files such as
// steamapps/appmanifest_<appid>.acf and extracts the installed build id.
// Key lookups are case-insensitive, matching how Steam treats them.
package manifest
