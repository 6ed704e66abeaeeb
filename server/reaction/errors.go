package reaction

import "errors"

var (
	// ErrInvalidCandidate は条件に合う有効な候補が見つからなかった場合に返されるエラーです。
	ErrInvalidCandidate = errors.New("no valid reaction candidate")
	// ErrDisallowedStart は現在の移動アクションがリアクションの開始を許可しない場合に返されるエラーです。
	ErrDisallowedStart = errors.New("reaction start not allowed in current action")
	// ErrRoleMismatch は現在のロールでは実行できない経路が呼ばれた場合に返されるエラーです。
	ErrRoleMismatch = errors.New("operation not permitted for network role")
	// ErrRejected はサーバー側の検証で要求が棄却された場合に返されるエラーです。
	ErrRejected = errors.New("reaction request rejected")
	// ErrInitializationFailed はコンポーネントの必須依存が欠けている場合に返されるエラーです。
	ErrInitializationFailed = errors.New("failed to initialize reaction component")
)
