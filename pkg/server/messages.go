package server

// Login dialogue.
const (
	msgProtocol         = "Select encoding / 한글 코드를 고르세요:\r\n  1) EUC-KR (완성형)\r\n  2) UTF-8\r\n[2]: "
	msgBadProtocol      = "Please type 1 or 2."
	msgWhatName         = "당신의 이름은 무엇입니까? "
	msgInvalidName      = "그 이름은 쓸 수 없습니다. 다른 이름을 골라 주세요."
	msgNameConfirm      = "%s(이)라는 이름이 맞습니까? (예/아니오) "
	msgYesOrNo          = "예 또는 아니오로 대답해 주세요: "
	msgPassword         = "비밀번호: "
	msgWrongPassword    = "비밀번호가 틀렸습니다."
	msgTooManyBadPWs    = "비밀번호를 너무 많이 틀렸습니다. 접속을 끊습니다."
	msgBadPWsSince      = "\r\n마지막 접속 이후 비밀번호가 %d번 틀렸습니다.\r\n"
	msgRestricted       = "지금은 게임에 들어올 수 없습니다. 나중에 다시 접속해 주세요."
	msgNewPassword      = "%s님의 비밀번호를 정해 주세요 (%d~%d자): "
	msgBadNewPassword   = "그 비밀번호는 쓸 수 없습니다. 이름과 다른 %d~%d자로 정해 주세요."
	msgConfirmPassword  = "확인을 위해 비밀번호를 한 번 더 입력하세요: "
	msgPasswordMismatch = "비밀번호가 일치하지 않습니다. 처음부터 다시 하세요."
	msgWhatSex          = "성별은 무엇입니까? (남/여) "
	msgBadSex           = "남 또는 여로 대답해 주세요."
	msgWhatClass        = "직업을 고르세요:\r\n  1) 마법사\r\n  2) 성직자\r\n  3) 도둑\r\n  4) 전사\r\n직업: "
	msgBadClass         = "그런 직업은 없습니다."
	msgPressEnter       = "\r\n*** 엔터를 누르세요: "
	msgBadMenuChoice    = "잘못 고르셨습니다."
	msgGoodbye          = "안녕히 가세요!"
	msgStoreError       = "캐릭터 정보를 읽다가 문제가 생겼습니다. 나중에 다시 접속해 주세요."
	msgNameTaken        = "누군가 방금 그 이름으로 캐릭터를 만들었습니다. 다시 접속해 주세요."
	msgNameInUse        = "그 이름은 이미 쓰이고 있습니다. 다시 접속해 주세요."
	msgOldPassword      = "지금 쓰는 비밀번호를 입력하세요: "
	msgPasswordChanged  = "비밀번호를 바꿨습니다."
	msgDeletePassword   = "캐릭터를 지우려면 비밀번호를 입력하세요: "
	msgDeleteConfirm    = "정말로 %s 캐릭터를 지우시겠습니까? 지우려면 '예'를 입력하세요: "
	msgDeleteFrozen     = "얼어붙은 캐릭터는 지울 수 없습니다."
	msgDeleted          = "%s 캐릭터를 지웠습니다. 안녕히 가세요."
	msgNotDeleted       = "캐릭터를 지우지 않았습니다."
	msgNoStartRoom      = "들어갈 곳이 없습니다. 관리자에게 알려 주세요."
	msgIdleTimeout      = "너무 오래 아무것도 하지 않아서 접속을 끊습니다."
	msgShutdown         = "게임을 종료합니다. 잠시 후 다시 접속해 주세요."
	msgLineTruncated    = "입력이 너무 길어서 다음과 같이 잘랐습니다:\r\n%s"
)

// Entering and leaving the game.
const (
	msgWelcome      = "%s에 오신 것을 환영합니다! 즐거운 시간 되세요."
	msgEntersGame   = "%s님이 게임에 들어왔습니다."
	msgLeavesGame   = "%s님이 게임을 떠났습니다."
	msgLostLink     = "%s님이 연결을 잃었습니다."
	msgReconnecting = "다시 연결합니다."
	msgReconnected  = "%s님이 다시 연결했습니다."
	msgUsurped      = "이 몸을 다른 접속이 차지했습니다!"
	msgMultiLogin   = "같은 캐릭터로 다시 접속했습니다. 이 접속은 끊습니다."
	msgTakeOver     = "이미 쓰이고 있던 당신의 몸을 되찾았습니다!"
	msgTakeOverRoom = "%s님이 갑자기 고통스럽게 쓰러지더니 하얀 빛에 휩싸입니다.\r\n새로운 영혼이 %s님의 몸을 차지했습니다!"
	msgUnswitched   = "변신이 풀린 몸으로 다시 연결합니다."
	msgWizEnter     = "[접속] %s님이 들어왔습니다. (%s)"
	msgWizLostLink  = "[접속] %s님이 연결을 잃었습니다."
	msgWizReconnect = "[접속] %s님이 다시 연결했습니다. (%s)"
	msgWizQuit      = "[접속] %s님이 게임을 떠났습니다."
)
