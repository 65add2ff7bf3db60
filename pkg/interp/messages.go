package interp

import "github.com/haneul-mud/haneul/pkg/gamedb"

const (
	msgHuh        = "네? 무슨 말씀이신지 모르겠어요."
	msgDidYouMean = "혹시 이 명령어를 찾으셨나요?"
	msgFrozen     = "몸이 꽁꽁 얼어붙어서 아무것도 할 수 없습니다!"
	msgStub       = "죄송합니다. 아직 만들어지지 않은 명령입니다."
	msgNPCDenied  = "몹은 그 명령을 쓸 수 없습니다."
	msgNoPosition = "지금은 그럴 수 없습니다."
)

var positionMessages = map[gamedb.Position]string{
	gamedb.PosDead:            "당신은 죽었습니다. 아무것도 할 수 없어요!",
	gamedb.PosMortallyWounded: "치명상을 입어 아무것도 할 수 없습니다!",
	gamedb.PosIncapacitated:   "치명상을 입어 아무것도 할 수 없습니다!",
	gamedb.PosStunned:         "기절해 있어서 그럴 수 없습니다!",
	gamedb.PosSleeping:        "꿈속에서요? 일단 일어나세요!",
	gamedb.PosResting:         "아니요... 너무 편안하게 쉬고 있거든요...",
	gamedb.PosSitting:         "먼저 일어서는 게 좋겠네요!",
	gamedb.PosFighting:        "싸우는 중에는 그럴 수 없습니다!",
}

// PositionMessage returns the refusal shown to an actor whose position is
// too low for a command.
func PositionMessage(p gamedb.Position) string {
	if msg, ok := positionMessages[p]; ok {
		return msg
	}
	return msgNoPosition
}

const (
	msgAliasHeader   = "현재 설정된 줄임말:"
	msgAliasNone     = " 없음."
	msgAliasNoSuch   = "그런 줄임말은 없습니다."
	msgAliasDeleted  = "줄임말이 삭제되었습니다."
	msgAliasReserved = "'%s'(은)는 줄임말로 쓸 수 없습니다."
	msgAliasAdded    = "줄임말이 설정되었습니다."
)
