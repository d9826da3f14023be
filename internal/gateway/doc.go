// Package gateway models the platform-native events the bot receives from the
// Discord gateway, together with the shard lifecycle events the gateway
// client synthesizes locally. Only the payload fields the handlers read are
// modelled; dispatches this build does not know decode to Unknown.
package gateway
