/*
Package utils provides the decorators shared by every drip application:
panic recovery, logging, savepoints, result tagging and metrics.
*/
package utils
