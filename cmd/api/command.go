package main

// Command はアプリケーションの起動モードを表します。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示します。
	CommandServe Command = "serve"
	// CommandSelfTest はプロセス内でログインから /whoami までを再生して終了することを示します。
	CommandSelfTest Command = "selftest"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析します。
// 引数が空またはサポート外のコマンドの場合は CommandServe を返します。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "selftest":
		return CommandSelfTest
	default:
		return CommandServe
	}
}
