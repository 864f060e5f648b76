package discord

// Friendly message constants for Discord responses
const (
	MsgNotRegistered = "👤 **Not Registered**\nLink a Twitch channel first with `/twitch register`."

	MsgTwitchUserNotFound = "❓ **Twitch Channel Not Found**\nMaybe check the spelling?"

	MsgAccountClaimed = "🔒 **Channel Already Claimed**\nThat Twitch channel is linked to another member."

	MsgInvalidBirthday = "📅 **Invalid Date**\nBirthdays are `dd/mm`, for example `24/12`."

	MsgRoleNotFound = "❓ **Role Not Found**\nThat role has no stored info."

	MsgConfirmNotYours = "This confirmation belongs to someone else."
	MsgConfirmExpired  = "This confirmation is no longer active."

	MsgAdminOnly = "🔒 You need the admin role to use this command."

	MsgGenericError = "❌ Something went wrong."
)
