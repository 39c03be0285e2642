package internal

// Version is the proncoach release version
const Version = "0.3.0"
