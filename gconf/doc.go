/*
Package gconf implements a singleton configuration store intended to be used
as a global, in-database configuration of an extension.

Each extension keeps at most one configuration object, stored under the
"_c:<package>" key. The object is validated before it is written.
Configuration can be loaded from the "conf" section of the genesis file using
InitConfig.
*/
package gconf
